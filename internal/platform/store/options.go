package store

import (
	"errors"

	"bazaar/internal/platform/logger"
)

// Option adjusts the Store before any backend is dialed
type Option func(*Store) error

// WithLogger hands log to the backends; their events carry component=store
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log.With().Str("component", "store").Logger()
		return nil
	}
}

// WithKV installs an already connected redis seam; Open then skips dialing redis
func WithKV(kv KV) Option {
	return func(s *Store) error {
		if kv == nil {
			return errors.New("store: nil kv")
		}
		s.RDS = kv
		return nil
	}
}

// WithClickhouse installs an already connected clickhouse seam; Open then skips dialing it
func WithClickhouse(c Clickhouse) Option {
	return func(s *Store) error {
		if c == nil {
			return errors.New("store: nil clickhouse")
		}
		s.CH = c
		return nil
	}
}
