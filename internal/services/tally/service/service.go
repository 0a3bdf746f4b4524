// Package service counts searches and serves the popular-terms read model
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bazaar/internal/modkit/repokit"
	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/logger"
	"bazaar/internal/platform/metrics"
	"bazaar/internal/services/tally/domain"
	"bazaar/internal/services/tally/repo"
)

// Backends for Config.Backend
const (
	BackendPG    = "pg"
	BackendRedis = "redis"
)

// Config tunes the service
type Config struct {
	Backend      string
	Kinds        []string // kinds Flush drains
	DefaultLimit int
	LockTimeout  time.Duration // bounds the flush transaction
}

// Service is everything the tally module exposes
type Service interface {
	domain.CounterPort
	domain.PopularPort
	domain.FlusherPort
}

// Svc implements Service
type Svc struct {
	db       repokit.TxRunner
	terms    repokit.Binder[repo.Terms]
	counters *repo.Counters
	cfg      Config
	now      func() time.Time
}

// New builds the service; counters may be nil unless cfg.Backend is redis
func New(db repokit.TxRunner, terms repokit.Binder[repo.Terms], counters *repo.Counters, cfg Config) *Svc {
	if db == nil {
		panic("tally.Service requires a non nil TxRunner")
	}
	if terms == nil {
		panic("tally.Service requires a non nil Terms binder")
	}
	if cfg.Backend == BackendRedis && counters == nil {
		panic("tally.Service redis backend requires counters")
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.Backend != BackendRedis {
		counters = nil
	}
	return &Svc{db: db, terms: terms, counters: counters, cfg: cfg, now: time.Now}
}

// Increment counts one search for term; empty terms are ignored
func (s *Svc) Increment(ctx context.Context, kind, term string) error {
	if term == "" {
		return nil
	}
	if s.counters != nil {
		return s.counters.Increment(ctx, kind, term)
	}
	return s.terms.Bind(s.db).Add(ctx, kind, term, 1, s.now())
}

// Popular returns the most searched terms of a kind, highest first
func (s *Svc) Popular(ctx context.Context, in domain.PopularInput) ([]domain.PopularTerm, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	rows, err := s.terms.Bind(s.db).Popular(ctx, in.Kind, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PopularTerm, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PopularTerm{Term: r.Term, Hits: r.Hits, LastSeenAt: r.LastSeenAt})
	}
	return out, nil
}

// Flush drains the redis counts of every configured kind into postgres
// Counts drained but not committed are lost; the tally tolerates that.
func (s *Svc) Flush(ctx context.Context) (int, error) {
	if s.counters == nil {
		return 0, nil
	}
	log := logger.C(ctx)
	var total int
	var errs []error
	for _, kind := range s.cfg.Kinds {
		pending, err := s.counters.Drain(ctx, kind)
		if err != nil {
			metrics.TallyFlushed("redis", 0, err)
			errs = append(errs, err)
			continue
		}
		if len(pending) == 0 {
			continue
		}
		n, err := s.apply(ctx, kind, pending)
		metrics.TallyFlushed("pg", n, err)
		if err != nil {
			log.Warn().Err(err).Str("kind", kind).Int("terms", len(pending)).Msg("tally flush failed, counts dropped")
			errs = append(errs, err)
			continue
		}
		log.Debug().Str("kind", kind).Int("terms", n).Msg("tally flushed")
		total += n
	}
	if len(errs) > 0 {
		return total, perr.Wrapf(errs[0], perr.ErrorCodeUnavailable, "tally flush: %d of %d kinds failed", len(errs), len(s.cfg.Kinds))
	}
	return total, nil
}

func (s *Svc) apply(ctx context.Context, kind string, pending map[string]int64) (int, error) {
	terms := make([]string, 0, len(pending))
	for t := range pending {
		terms = append(terms, t)
	}
	// fixed order keeps concurrent flushers from deadlocking on row locks
	sort.Strings(terms)

	at := s.now()
	tx := repokit.WithBeginHooks(s.db, lockTimeout(s.cfg.LockTimeout))
	err := repokit.WithTx(ctx, tx, func(ctx context.Context, q repokit.Queryer) error {
		r := s.terms.Bind(q)
		for _, t := range terms {
			if err := r.Add(ctx, kind, t, pending[t], at); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(terms), nil
}

func lockTimeout(d time.Duration) repokit.BeginHook {
	return func(ctx context.Context, q repokit.Queryer) error {
		if d <= 0 {
			return nil
		}
		_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = %d", d.Milliseconds()))
		return err
	}
}
