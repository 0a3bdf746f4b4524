package repo

import (
	"context"

	"bazaar/internal/platform/store"
)

// KeyPrefix namespaces the pending-count hashes, one per kind
const KeyPrefix = "bazaar:terms:"

// Counters keeps pending counts in redis hashes until the tally worker drains them
type Counters struct {
	kv store.KV
}

// NewCounters wraps kv
func NewCounters(kv store.KV) *Counters { return &Counters{kv: kv} }

// Key is the hash holding kind's pending counts
func Key(kind string) string { return KeyPrefix + kind }

// Increment adds one hit for term
func (c *Counters) Increment(ctx context.Context, kind, term string) error {
	_, err := c.kv.HIncrBy(ctx, Key(kind), term, 1)
	return err
}

// Drain takes every pending count of kind; later increments start a new hash
func (c *Counters) Drain(ctx context.Context, kind string) (map[string]int64, error) {
	return c.kv.HDrain(ctx, Key(kind))
}
