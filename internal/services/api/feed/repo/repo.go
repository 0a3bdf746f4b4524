// Package repo translates planned feed queries into postgres reads
package repo

import (
	"context"
	"fmt"
	"time"

	"bazaar/internal/core/geo"
	"bazaar/internal/core/ranking"
	"bazaar/internal/modkit/repokit"
	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/store"
	"bazaar/internal/services/api/feed/domain"

	"github.com/google/uuid"
)

// Repo reads feed pages; bind it to the snapshot the page is served from
type Repo interface {
	Page(ctx context.Context, spec domain.QuerySpec) ([]RawRow, error)
	OwnerPreviews(ctx context.Context, kind domain.Kind, owners []int64, perOwner int) ([]PreviewRow, error)
	ViewerLocation(ctx context.Context, userID int64) (*geo.Point, error)
}

// RawRow is one listing as the store returns it, children still json encoded
type RawRow struct {
	ID        int64
	PublicID  uuid.UUID
	OwnerID   int64
	CreatedAt time.Time
	Lat, Lon  *float64
	Country   string
	State     string
	Attrs     []byte
	Relevance float64
	Distance  float64

	UserID        int64
	FirstName     string
	LastName      string
	ProfilePicKey string
	Online        bool

	Bookmarked bool
	Images     []byte
	Plans      []byte
}

// Signal is the ranking tuple of the row
func (r RawRow) Signal() ranking.Signal {
	return ranking.Signal{Distance: r.Distance, Relevance: r.Relevance, CreatedAt: r.CreatedAt, ID: r.ID}.Canonical()
}

// PreviewRow is one candidate for an owner's other-listings strip
type PreviewRow struct {
	OwnerID   int64
	ID        int64
	PublicID  uuid.UUID
	Title     string
	ImageKey  string
	CreatedAt time.Time
}

type (
	// PG binds Repo to a Queryer
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres Repo binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func scanRaw(row store.Row) (RawRow, error) {
	var r RawRow
	err := row.Scan(
		&r.ID, &r.PublicID, &r.OwnerID, &r.CreatedAt, &r.Lat, &r.Lon,
		&r.Country, &r.State, &r.Attrs, &r.Relevance, &r.Distance,
		&r.UserID, &r.FirstName, &r.LastName, &r.ProfilePicKey, &r.Online,
		&r.Bookmarked, &r.Images, &r.Plans,
	)
	return r, err
}

func (r *queries) Page(ctx context.Context, spec domain.QuerySpec) ([]RawRow, error) {
	sql, args, err := Build(spec)
	if err != nil {
		return nil, err
	}
	out, err := store.Many(ctx, r.q, scanRaw, sql, args...)
	if err != nil {
		return nil, perr.FromPostgresf(err, "feed page %s", spec.Kind)
	}
	return out, nil
}

const previewsSQL = `
SELECT p.owner_id, p.id, p.public_id, p.title, p.image_key, p.created_at
FROM (
  SELECT l.owner_id, l.id, l.public_id, coalesce(l.%[2]s, '') AS title,
    coalesce((SELECT i.image_key FROM %[3]s i WHERE i.%[4]s = l.id ORDER BY i.created_at DESC, i.id DESC LIMIT 1), '') AS image_key,
    l.created_at,
    row_number() OVER (PARTITION BY l.owner_id ORDER BY l.created_at DESC, l.id ASC) AS rn
  FROM %[1]s l
  WHERE l.status = 'active' AND l.owner_id = ANY($1)
) p
WHERE p.rn <= $2
ORDER BY p.owner_id, p.rn`

// OwnerPreviews returns up to perOwner newest active listings of each owner in one round trip
func (r *queries) OwnerPreviews(ctx context.Context, kind domain.Kind, owners []int64, perOwner int) ([]PreviewRow, error) {
	cat, ok := catalogs[kind]
	if !ok {
		return nil, perr.NotFoundf("unknown listing kind %d", kind)
	}
	if len(owners) == 0 || perOwner <= 0 {
		return nil, nil
	}
	sql := fmt.Sprintf(previewsSQL, cat.table, cat.title, cat.images.table, cat.images.fk)
	out, err := store.Many(ctx, r.q, func(row store.Row) (PreviewRow, error) {
		var p PreviewRow
		err := row.Scan(&p.OwnerID, &p.ID, &p.PublicID, &p.Title, &p.ImageKey, &p.CreatedAt)
		return p, err
	}, sql, owners, perOwner)
	if err != nil {
		return nil, perr.FromPostgresf(err, "feed owner previews %s", kind)
	}
	return out, nil
}

const viewerLocationSQL = `SELECT latitude, longitude FROM user_locations WHERE user_id = $1`

// ViewerLocation is the stored location of a user, nil when none is stored
func (r *queries) ViewerLocation(ctx context.Context, userID int64) (*geo.Point, error) {
	if userID <= 0 {
		return nil, nil
	}
	p, err := store.One(ctx, r.q, func(row store.Row) (geo.Point, error) {
		var p geo.Point
		err := row.Scan(&p.Lat, &p.Lon)
		return p, err
	}, viewerLocationSQL, userID)
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return nil, nil
	case err != nil:
		return nil, perr.FromPostgres(err, "feed viewer location")
	}
	if p.Validate() != nil {
		return nil, nil
	}
	return &p, nil
}
