// Package store is the facade over the optional backends: Postgres for listings and tallies,
// ClickHouse for search analytics and Redis for hot counters
package store

import (
	"context"
	"errors"
	"fmt"

	"bazaar/internal/platform/logger"
)

// Store holds whichever backends were enabled; nil seams are disabled
type Store struct {
	// Log is handed to sub clients; the zero value discards
	Log logger.Logger

	PG  TxRunner
	CH  Clickhouse
	RDS KV
}

// Row is a single-row scan
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn inside a read-write transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// SnapshotRunner runs fn inside a read-only transaction that sees one consistent snapshot
type SnapshotRunner interface {
	Snapshot(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam; rows follow the table's column order
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// KV is the redis seam
type KV interface {
	HIncrBy(ctx context.Context, key, field string, by int64) (int64, error)
	HDrain(ctx context.Context, key string) (map[string]int64, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Open connects the backends enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, err
		}
		s.PG = p
	}
	if cfg.CH.Enabled && s.CH == nil {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}
	if cfg.RDS.Enabled && s.RDS == nil {
		r, err := openRDS(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.RDS = r
	}
	return s, nil
}

// Pingers lists every enabled seam that can report readiness, keyed by backend name
func (s *Store) Pingers() map[string]Pinger {
	out := map[string]Pinger{}
	if s == nil {
		return out
	}
	for name, seam := range map[string]any{"pg": s.PG, "ch": s.CH, "redis": s.RDS} {
		if seam == nil {
			continue
		}
		if p, ok := seam.(Pinger); ok {
			out[name] = p
		}
	}
	return out
}

// Guard pings every enabled seam and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for name, p := range s.Pingers() {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every enabled seam
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.RDS != nil {
		errs = append(errs, s.RDS.Close())
	}
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
