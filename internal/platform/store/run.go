package store

import "context"

// RunSnapshot runs fn against one consistent read snapshot when the runner supports it,
// falling back to an ordinary transaction
func RunSnapshot(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q RowQuerier) error) error {
	wrapped := func(q RowQuerier) error { return fn(ctx, q) }
	if s, ok := tx.(SnapshotRunner); ok {
		return s.Snapshot(ctx, wrapped)
	}
	return tx.Tx(ctx, wrapped)
}

// RunInTx runs fn in a read-write transaction
func RunInTx(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q RowQuerier) error) error {
	return tx.Tx(ctx, func(q RowQuerier) error { return fn(ctx, q) })
}
