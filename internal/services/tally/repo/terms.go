// Package repo provides tally storage: postgres totals, redis pending counts and clickhouse events
package repo

import (
	"context"
	"time"

	"bazaar/internal/modkit/repokit"
	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/store"
)

// Terms is the durable tally in postgres
type Terms interface {
	Add(ctx context.Context, kind, term string, hits int64, at time.Time) error
	Popular(ctx context.Context, kind string, limit int) ([]RowTerm, error)
}

// RowTerm is one search_terms row
type RowTerm struct {
	Term       string
	Hits       int64
	LastSeenAt time.Time
}

type (
	// PG binds Terms to a Queryer
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres Terms binder
func NewPG() repokit.Binder[Terms] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) Terms { return &queries{q: q} }

const addSQL = `
INSERT INTO search_terms (kind, term, hits, last_seen_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (kind, term) DO UPDATE
SET hits = search_terms.hits + EXCLUDED.hits,
    last_seen_at = GREATEST(search_terms.last_seen_at, EXCLUDED.last_seen_at)`

func (r *queries) Add(ctx context.Context, kind, term string, hits int64, at time.Time) error {
	if hits <= 0 || term == "" {
		return nil
	}
	if _, err := r.q.Exec(ctx, addSQL, kind, term, hits, at.UTC()); err != nil {
		return perr.FromPostgresf(err, "tally add %s/%s", kind, term)
	}
	return nil
}

const popularSQL = `
SELECT term, hits, last_seen_at
FROM search_terms
WHERE kind = $1
ORDER BY hits DESC, term ASC
LIMIT $2`

func (r *queries) Popular(ctx context.Context, kind string, limit int) ([]RowTerm, error) {
	out, err := store.Many(ctx, r.q, func(row store.Row) (RowTerm, error) {
		var t RowTerm
		err := row.Scan(&t.Term, &t.Hits, &t.LastSeenAt)
		return t, err
	}, popularSQL, kind, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "tally popular")
	}
	return out, nil
}
