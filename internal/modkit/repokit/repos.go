// Package repokit is the repository toolkit: store seam aliases, binders, tx hooks and retry
package repokit

import (
	"context"

	"bazaar/internal/platform/store"
)

type (
	// Queryer is the read and write surface repos bind to
	Queryer = store.RowQuerier

	// TxRunner runs fn in a read-write transaction
	TxRunner = store.TxRunner

	// SnapshotRunner runs fn in a read-only consistent snapshot
	SnapshotRunner = store.SnapshotRunner

	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag is the outcome of a write
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a read-write transaction
func WithTx(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q Queryer) error) error {
	return store.RunInTx(ctx, tx, fn)
}

// WithSnapshot runs fn against one consistent read snapshot, or a plain tx when tx has none
func WithSnapshot(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q Queryer) error) error {
	return store.RunSnapshot(ctx, tx, fn)
}
