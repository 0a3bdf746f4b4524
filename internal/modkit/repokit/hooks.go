package repokit

import (
	"context"
	"fmt"
	"time"

	ptime "bazaar/internal/platform/time"
)

// BeginHook runs first inside every transaction or snapshot, on the bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps inner so hooks run at the start of each Tx and Snapshot
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) before(ctx context.Context, fn func(q Queryer) error) func(q Queryer) error {
	return func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	}
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, h.before(ctx, fn))
}

// Snapshot keeps the inner snapshot semantics; without them it degrades to Tx
func (h hookedTx) Snapshot(ctx context.Context, fn func(q Queryer) error) error {
	if s, ok := h.TxRunner.(SnapshotRunner); ok {
		return s.Snapshot(ctx, h.before(ctx, fn))
	}
	return h.Tx(ctx, fn)
}

// LocalTimeout bounds every statement of the transaction by what is left of ctx's deadline
// ctx without a deadline leaves the session setting alone
func LocalTimeout(floor time.Duration) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		left, ok := ptime.Remaining(ctx)
		if !ok {
			return nil
		}
		if left < floor {
			left = floor
		}
		_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", left.Milliseconds()))
		return err
	}
}
