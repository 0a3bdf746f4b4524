package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"bazaar/internal/core/geo"
	"bazaar/internal/core/rowagg"
	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/metrics"
	"bazaar/internal/services/api/feed/domain"
	"bazaar/internal/services/api/feed/repo"
)

type imageJSON struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}

// group collects every joined row of one listing
type group struct {
	row      repo.RawRow
	images   []imageJSON
	plans    []domain.Plan
	imageIDs map[int64]struct{}
	planIDs  map[int64]struct{}
	err      error
}

func newGroup(row repo.RawRow) *group {
	return &group{row: row, imageIDs: map[int64]struct{}{}, planIDs: map[int64]struct{}{}}
}

// merge folds the children of row into g; scalars are taken from the first row only
func (g *group) merge(row repo.RawRow) error {
	var images []imageJSON
	if len(row.Images) > 0 {
		if err := json.Unmarshal(row.Images, &images); err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "decode images")
		}
	}
	for _, im := range images {
		if _, dup := g.imageIDs[im.ID]; dup {
			continue
		}
		g.imageIDs[im.ID] = struct{}{}
		g.images = append(g.images, im)
	}

	var plans []domain.Plan
	if len(row.Plans) > 0 {
		if err := json.Unmarshal(row.Plans, &plans); err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "decode plans")
		}
	}
	for _, p := range plans {
		if _, dup := g.planIDs[p.ID]; dup {
			continue
		}
		g.planIDs[p.ID] = struct{}{}
		g.plans = append(g.plans, p)
	}
	return nil
}

// mapper builds the typed listing of one kind from its base and raw attributes
type mapper func(base domain.ListingBase, attrs []byte, plans []domain.Plan) (domain.Listing, error)

var mappers = map[domain.Kind]mapper{
	domain.KindServices:     mapService,
	domain.KindLocalJobs:    mapLocalJob,
	domain.KindUsedProducts: mapUsedProduct,
}

func mapService(base domain.ListingBase, attrs []byte, plans []domain.Plan) (domain.Listing, error) {
	var a struct {
		Title            string `json:"title"`
		ShortDescription string `json:"short_description"`
		LongDescription  string `json:"long_description"`
	}
	if err := decodeAttrs(attrs, &a); err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	return &domain.Service{
		ListingBase:      base,
		Title:            a.Title,
		ShortDescription: a.ShortDescription,
		LongDescription:  a.LongDescription,
		Plans:            plans,
	}, nil
}

func mapLocalJob(base domain.ListingBase, attrs []byte, _ []domain.Plan) (domain.Listing, error) {
	var a struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Company     string   `json:"company"`
		SalaryMin   *float64 `json:"salary_min"`
		SalaryMax   *float64 `json:"salary_max"`
		SalaryUnit  string   `json:"salary_unit"`
	}
	if err := decodeAttrs(attrs, &a); err != nil {
		return nil, err
	}
	return &domain.LocalJob{
		ListingBase: base,
		Title:       a.Title,
		Description: a.Description,
		Company:     a.Company,
		SalaryMin:   a.SalaryMin,
		SalaryMax:   a.SalaryMax,
		SalaryUnit:  a.SalaryUnit,
	}, nil
}

func mapUsedProduct(base domain.ListingBase, attrs []byte, _ []domain.Plan) (domain.Listing, error) {
	var a struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Currency    string  `json:"currency"`
		Condition   string  `json:"condition"`
	}
	if err := decodeAttrs(attrs, &a); err != nil {
		return nil, err
	}
	return &domain.UsedProduct{
		ListingBase: base,
		Name:        a.Name,
		Description: a.Description,
		Price:       a.Price,
		Currency:    a.Currency,
		Condition:   a.Condition,
	}, nil
}

func decodeAttrs(raw []byte, into any) error {
	if len(raw) == 0 {
		return perr.New(perr.ErrorCodeJSON, "listing attributes missing")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "decode listing attributes")
	}
	return nil
}

// base builds the shared part of a listing from its first row and merged children
func (s *Svc) base(q query, g *group) domain.ListingBase {
	r := g.row
	b := domain.ListingBase{
		ID:   r.PublicID,
		Seq:  r.ID,
		Kind: q.kind.Slug(),
		Owner: domain.Owner{
			ID:            r.UserID,
			FirstName:     r.FirstName,
			LastName:      r.LastName,
			ProfilePicURL: s.media.URL(repo.ProfileCollection, r.ProfilePicKey),
			Online:        r.Online,
		},
		Country:       r.Country,
		State:         r.State,
		CreatedAt:     r.CreatedAt.UTC(),
		Bookmarked:    r.Bookmarked,
		Images:        make([]domain.Image, 0, len(g.images)),
		OwnerListings: []domain.Preview{},
	}
	if r.Lat != nil && r.Lon != nil {
		b.Location = &geo.Point{Lat: *r.Lat, Lon: *r.Lon}
	}
	if q.mode.Geo() {
		d := r.Distance
		b.DistanceKm = &d
	}
	if q.mode.Search() {
		rel := r.Relevance
		b.Relevance = &rel
	}

	sort.SliceStable(g.images, func(i, j int) bool {
		a, c := g.images[i], g.images[j]
		if !a.CreatedAt.Equal(c.CreatedAt) {
			return a.CreatedAt.After(c.CreatedAt)
		}
		return a.ID > c.ID
	})
	collection := repo.ImageCollection(q.kind)
	for _, im := range g.images {
		b.Images = append(b.Images, domain.Image{ID: im.ID, URL: s.media.URL(collection, im.Key), CreatedAt: im.CreatedAt.UTC()})
	}

	sort.SliceStable(g.plans, func(i, j int) bool {
		a, c := g.plans[i], g.plans[j]
		if !a.CreatedAt.Equal(c.CreatedAt) {
			return a.CreatedAt.Before(c.CreatedAt)
		}
		return a.ID < c.ID
	})
	return b
}

// aggregate collapses rows into listings in first-seen order
// A listing whose nested data cannot be decoded is dropped alone; store errors fail the page.
func (s *Svc) aggregate(ctx context.Context, r repo.Repo, q query, rows []repo.RawRow) ([]domain.Listing, error) {
	groups := rowagg.New[int64, *group](len(rows))
	var owners []int64
	seenOwner := map[int64]struct{}{}
	for _, row := range rows {
		gp, created := groups.Upsert(row.ID, func() *group { return newGroup(row) })
		g := *gp
		if created {
			if _, ok := seenOwner[row.OwnerID]; !ok {
				seenOwner[row.OwnerID] = struct{}{}
				owners = append(owners, row.OwnerID)
			}
		}
		if g.err == nil {
			g.err = g.merge(row)
		}
	}

	previews, err := s.ownerPreviews(ctx, r, q.kind, owners)
	if err != nil {
		return nil, err
	}

	mapFn := mappers[q.kind]
	out := make([]domain.Listing, 0, groups.Len())
	groups.Each(func(id int64, g *group) bool {
		err := g.err
		var l domain.Listing
		if err == nil {
			b := s.base(q, g)
			l, err = mapFn(b, g.row.Attrs, g.plans)
		}
		if err != nil {
			logger.C(ctx).Warn().Err(err).Str("kind", q.kind.Slug()).Int64("listing", id).Msg("feed skipping malformed listing")
			metrics.FeedAggregateSkip(q.kind.Slug())
			return true
		}
		l.Base().OwnerListings = s.previewsFor(q.kind, id, previews[g.row.OwnerID])
		out = append(out, l)
		return true
	})
	return out, nil
}

func (s *Svc) ownerPreviews(ctx context.Context, r repo.Repo, kind domain.Kind, owners []int64) (map[int64][]repo.PreviewRow, error) {
	if s.cfg.OwnerPreviews <= 0 || len(owners) == 0 {
		return nil, nil
	}
	// one spare per owner so dropping the listing itself still leaves a full strip
	rows, err := r.OwnerPreviews(ctx, kind, owners, s.cfg.OwnerPreviews+1)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]repo.PreviewRow, len(owners))
	for _, p := range rows {
		out[p.OwnerID] = append(out[p.OwnerID], p)
	}
	return out, nil
}

func (s *Svc) previewsFor(kind domain.Kind, self int64, rows []repo.PreviewRow) []domain.Preview {
	out := make([]domain.Preview, 0, s.cfg.OwnerPreviews)
	collection := repo.ImageCollection(kind)
	for _, p := range rows {
		if p.ID == self {
			continue
		}
		if len(out) == s.cfg.OwnerPreviews {
			break
		}
		out = append(out, domain.Preview{
			ID:        p.PublicID,
			Title:     p.Title,
			ImageURL:  s.media.URL(collection, p.ImageKey),
			CreatedAt: p.CreatedAt.UTC(),
		})
	}
	return out
}
