// Package service serves geo-ranked, relevance-scored, cursor-paginated listing feeds
package service

import (
	"context"
	"time"

	"bazaar/internal/core/cursor"
	"bazaar/internal/core/normalize"
	"bazaar/internal/core/ranking"
	"bazaar/internal/modkit/repokit"
	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/metrics"
	pstrings "bazaar/internal/platform/strings"
	ptime "bazaar/internal/platform/time"
	"bazaar/internal/services/api/feed/domain"
	"bazaar/internal/services/api/feed/repo"
	tallydomain "bazaar/internal/services/tally/domain"
)

// Config tunes the feed
type Config struct {
	PageSize      int
	MaxPageSize   int
	OwnerPreviews int
	Radius        Policy
	Timeout       time.Duration // whole-request budget; never extends the caller's deadline
	Retry         repokit.RetryPolicy
}

// Option customizes Svc
type Option func(*Svc)

// WithMedia sets the URL resolver for stored object keys
func WithMedia(m *Media) Option { return func(s *Svc) { s.media = m } }

// WithTally reports first-page searches to the tally and the event sink
func WithTally(counter tallydomain.CounterPort, events tallydomain.EventsPort) Option {
	return func(s *Svc) { s.counter, s.events = counter, events }
}

// Svc implements domain.ServicePort
type Svc struct {
	db      repokit.TxRunner
	repo    repokit.Binder[repo.Repo]
	codec   *cursor.Codec
	media   *Media
	counter tallydomain.CounterPort
	events  tallydomain.EventsPort
	cfg     Config
}

var _ domain.ServicePort = (*Svc)(nil)

// New builds the feed service; db must support snapshots
func New(db repokit.TxRunner, r repokit.Binder[repo.Repo], codec *cursor.Codec, cfg Config, opts ...Option) *Svc {
	if db == nil {
		panic("feed.Service requires a non nil TxRunner")
	}
	if r == nil {
		panic("feed.Service requires a non nil Repo binder")
	}
	if codec == nil {
		panic("feed.Service requires a cursor codec")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = cfg.PageSize
	}
	if cfg.Radius.CapKm <= 0 {
		cfg.Radius = DefaultPolicy
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	s := &Svc{db: db, repo: r, codec: codec, media: NewMedia("", nil), cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	return s
}

// served is the outcome of one snapshot
type served struct {
	q           query
	found       searched
	listings    []domain.Listing
	inPage      []repo.RawRow
	staleCursor bool
}

// Feed serves one page
func (s *Svc) Feed(ctx context.Context, req domain.FeedRequest) (domain.Page, error) {
	start := time.Now()
	page, mode, err := s.feed(ctx, req, start)
	metrics.FeedServed(req.Kind.Slug(), mode.String(), outcome(err), time.Since(start))
	return page, err
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	switch {
	case perr.IsClient(err):
		return metrics.OutcomeInvalid
	case perr.IsCode(err, perr.ErrorCodeUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}

func (s *Svc) feed(ctx context.Context, req domain.FeedRequest, start time.Time) (domain.Page, ranking.Mode, error) {
	mode := ranking.ModeFor(req.Origin != nil, req.Search != "")
	if !req.Kind.Valid() {
		return domain.Page{}, mode, perr.NotFoundf("unknown feed kind %d", req.Kind)
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.cfg.PageSize
	}
	if pageSize < 1 || pageSize > s.cfg.MaxPageSize {
		return domain.Page{}, mode, perr.WithField(perr.Validationf("page_size must be between 1 and %d", s.cfg.MaxPageSize), "page_size")
	}
	if req.Origin != nil {
		if err := req.Origin.Validate(); err != nil {
			return domain.Page{}, mode, err
		}
	}
	term := normalize.Term(req.Search)
	kind := req.Kind.Slug()

	var pos *cursor.Position
	badCursor := false
	if req.Cursor != "" {
		if p, ok := s.codec.Decode(req.Cursor); ok {
			pos = &p
		} else {
			badCursor = true
		}
	}

	ctx, cancel := ptime.WithBudget(ctx, s.cfg.Timeout)
	defer cancel()

	var out served
	err := repokit.Retry(ctx, s.cfg.Retry, "feed "+kind, func(ctx context.Context) error {
		return repokit.WithSnapshot(ctx, s.db, func(ctx context.Context, q repokit.Queryer) error {
			var err error
			out, err = s.serve(ctx, s.repo.Bind(q), req, term, pos, pageSize)
			return err
		})
	})
	if err != nil {
		if cerr := perr.FromContext(ctx.Err(), "feed "+kind); cerr != nil && perr.CodeOf(err) != perr.ErrorCodeUnavailable {
			err = cerr
		}
		return domain.Page{}, mode, err
	}
	mode = out.q.mode
	log := logger.C(ctx)

	if badCursor || out.staleCursor {
		log.Debug().Str("kind", kind).Str("mode", mode.String()).Msg("feed cursor rejected, serving first page")
		metrics.FeedInvalidCursor(kind)
	}
	if out.found.widened > 0 {
		log.Debug().Str("kind", kind).Float64("radius_km", out.found.radiusKm).Int("widened", out.found.widened).Msg("feed radius widened")
		metrics.FeedWidened(kind, out.found.widened)
	}

	page := domain.Page{Data: out.listings}
	if n := len(out.found.rows); n > pageSize || (mode.Geo() && n == pageSize && out.found.radiusKm < s.cfg.Radius.CapKm) {
		last := out.inPage[len(out.inPage)-1]
		next := cursor.Position{
			Kind:        uint8(req.Kind),
			Mode:        mode,
			Fingerprint: cursor.Fingerprint(uint8(req.Kind), term),
			Signal:      last.Signal().Project(mode),
		}
		if mode.Geo() {
			next.Radius = out.found.radiusKm
		}
		page.NextToken = pstrings.Ptr(s.codec.Encode(next))
	}
	if out.q.pos != nil {
		page.PreviousToken = pstrings.Ptr(req.Cursor)
	}

	if out.q.pos == nil && term != "" {
		s.recordSearch(ctx, out, term, len(page.Data), time.Since(start))
	}
	return page, mode, nil
}

// serve runs inside one snapshot; everything it reads is consistent
func (s *Svc) serve(ctx context.Context, r repo.Repo, req domain.FeedRequest, term string, pos *cursor.Position, pageSize int) (served, error) {
	origin := req.Origin
	if origin == nil && req.Viewer > 0 {
		var err error
		if origin, err = r.ViewerLocation(ctx, req.Viewer); err != nil {
			return served{}, err
		}
	}

	out := served{q: query{
		kind:     req.Kind,
		mode:     ranking.ModeFor(origin != nil, term != ""),
		origin:   origin,
		term:     term,
		pageSize: pageSize,
		viewer:   req.Viewer,
	}}
	if pos != nil {
		if s.resumes(*pos, out.q) {
			out.q.pos = pos
		} else {
			out.staleCursor = true
		}
	}

	found, err := s.cfg.Radius.search(ctx, out.q.mode.Geo(), s.cfg.Radius.start(out.q.pos), pageSize,
		func(ctx context.Context, radiusKm float64) ([]repo.RawRow, error) {
			return r.Page(ctx, plan(out.q, radiusKm))
		})
	if err != nil {
		return served{}, err
	}
	out.found = found
	out.inPage = found.rows
	if len(out.inPage) > pageSize {
		out.inPage = out.inPage[:pageSize]
	}

	if out.listings, err = s.aggregate(ctx, r, out.q, out.inPage); err != nil {
		return served{}, err
	}
	return out, nil
}

// resumes reports whether pos was minted for this kind, mode and search
func (s *Svc) resumes(pos cursor.Position, q query) bool {
	return pos.Kind == uint8(q.kind) &&
		pos.Mode == q.mode &&
		pos.Fingerprint == cursor.Fingerprint(uint8(q.kind), q.term)
}

// recordSearch feeds the tally and the analytics sink; failures never reach the caller
func (s *Svc) recordSearch(ctx context.Context, out served, term string, results int, took time.Duration) {
	kind := out.q.kind.Slug()
	if s.counter != nil {
		if err := s.counter.Increment(ctx, kind, term); err != nil {
			logger.C(ctx).Warn().Err(err).Str("kind", kind).Msg("feed search tally failed")
		}
	}
	if s.events != nil {
		s.events.Record(tallydomain.Event{
			Kind:      kind,
			Term:      term,
			Principal: out.q.viewer,
			HasGeo:    out.q.mode.Geo(),
			RadiusKm:  out.found.radiusKm,
			Results:   results,
			Elapsed:   took,
		})
	}
}
