package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"bazaar/internal/core/cursor"
	"bazaar/internal/core/geo"
	"bazaar/internal/core/ranking"
	"bazaar/internal/modkit/repokit"
	"bazaar/internal/platform/store/storetest"
	"bazaar/internal/services/api/feed/domain"
	"bazaar/internal/services/api/feed/repo"
	tallydomain "bazaar/internal/services/tally/domain"

	"github.com/google/uuid"
)

var (
	berlin = geo.Point{Lat: 52.52, Lon: 13.405}
	t0     = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	secret = []byte("0123456789abcdef0123")
)

// fixture is one stored services listing
type fixture struct {
	id      int64
	owner   int64
	title   string
	at      time.Time
	loc     *geo.Point
	images  []imageJSON
	rawImgs []byte
}

func pt(lat, lon float64) *geo.Point { return &geo.Point{Lat: lat, Lon: lon} }

// memRepo evaluates QuerySpecs in memory with the same order and seek rules the SQL uses
type memRepo struct {
	mu        sync.Mutex
	fixtures  []fixture
	locations map[int64]geo.Point
	previews  []repo.PreviewRow
	specs     []domain.QuerySpec
	failPages []error // consumed one per Page call
}

func (m *memRepo) Page(_ context.Context, spec domain.QuerySpec) ([]repo.RawRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.specs = append(m.specs, spec)
	if len(m.failPages) > 0 {
		err := m.failPages[0]
		m.failPages = m.failPages[1:]
		if err != nil {
			return nil, err
		}
	}

	var out []repo.RawRow
	for _, f := range m.fixtures {
		row := f.raw()
		if spec.Mode.Geo() {
			if f.loc == nil {
				continue
			}
			row.Distance = geo.DistanceKm(*spec.Origin, *f.loc)
			if row.Distance > spec.RadiusKm {
				continue
			}
		}
		if spec.Mode.Search() {
			row.Relevance = float64(strings.Count(strings.ToLower(f.title), spec.Search))
			if row.Relevance <= 0 {
				continue
			}
		}
		if spec.After != nil && !ranking.Matches(spec.Mode, *spec.After, row.Signal()) {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return ranking.Compare(spec.Mode, out[i].Signal(), out[j].Signal()) < 0
	})
	if len(out) > spec.Limit {
		out = out[:spec.Limit]
	}
	return out, nil
}

func (m *memRepo) OwnerPreviews(_ context.Context, _ domain.Kind, owners []int64, perOwner int) ([]repo.PreviewRow, error) {
	want := map[int64]bool{}
	for _, o := range owners {
		want[o] = true
	}
	count := map[int64]int{}
	var out []repo.PreviewRow
	for _, p := range m.previews {
		if want[p.OwnerID] && count[p.OwnerID] < perOwner {
			count[p.OwnerID]++
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) ViewerLocation(_ context.Context, userID int64) (*geo.Point, error) {
	if p, ok := m.locations[userID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *memRepo) radii() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.specs))
	for i, s := range m.specs {
		out[i] = s.RadiusKm
	}
	return out
}

func (f fixture) raw() repo.RawRow {
	attrs, _ := json.Marshal(map[string]string{"title": f.title, "short_description": f.title})
	imgs := f.rawImgs
	if imgs == nil {
		imgs, _ = json.Marshal(f.images)
		if f.images == nil {
			imgs = []byte(`[]`)
		}
	}
	owner := f.owner
	if owner == 0 {
		owner = 1
	}
	r := repo.RawRow{
		ID:        f.id,
		PublicID:  uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(f.id)}),
		OwnerID:   owner,
		CreatedAt: f.at,
		Attrs:     attrs,
		UserID:    owner,
		FirstName: "Owner",
		Images:    imgs,
		Plans:     []byte(`[]`),
	}
	if f.loc != nil {
		r.Lat, r.Lon = &f.loc.Lat, &f.loc.Lon
	}
	return r
}

// memCounter records tally increments
type memCounter struct {
	mu    sync.Mutex
	terms []string
	err   error
}

func (c *memCounter) Increment(_ context.Context, kind, term string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.terms = append(c.terms, kind+"/"+term)
	return c.err
}

type memEvents struct {
	mu  sync.Mutex
	got []tallydomain.Event
}

func (e *memEvents) Record(ev tallydomain.Event) {
	e.mu.Lock()
	e.got = append(e.got, ev)
	e.mu.Unlock()
}

func newFeed(m *memRepo, opts ...Option) (*Svc, *storetest.Querier) {
	codec, err := cursor.NewCodec(secret)
	if err != nil {
		panic(err)
	}
	db := &storetest.Querier{}
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	return New(db, binder, codec, Config{
		PageSize:      20,
		MaxPageSize:   50,
		OwnerPreviews: 4,
		Radius:        DefaultPolicy,
		Timeout:       time.Second,
		Retry:         repokit.RetryPolicy{Attempts: 3, Base: time.Millisecond, Ceiling: 2 * time.Millisecond},
	}, opts...), db
}

func ids(p domain.Page) []int64 {
	out := make([]int64, len(p.Data))
	for i, l := range p.Data {
		out[i] = l.Base().Seq
	}
	return out
}
