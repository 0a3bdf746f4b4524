package store

import (
	"context"

	perr "bazaar/internal/platform/errors"
)

// ExecOne runs a write that must touch exactly one row
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n := tag.RowsAffected(); n != 1 {
		return perr.Newf(perr.ErrorCodeDB, "want one row affected, got %d", n)
	}
	return nil
}

// Scalar scans the first column of the first row
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (v T, err error) {
	if err = q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// each scans rows until yield says stop or the rows run out; it owns closing them
func each[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args []any, yield func(T) bool) error {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rs.Close()
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return err
		}
		if !yield(item) {
			return nil
		}
	}
	return rs.Err()
}

// One maps exactly one row; no rows is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var (
		got  T
		seen int
	)
	err := each(ctx, q, scan, sql, args, func(item T) bool {
		seen++
		got = item
		return seen < 2
	})
	var zero T
	switch {
	case err != nil:
		return zero, err
	case seen == 0:
		return zero, perr.ErrNotFound
	case seen > 1:
		return zero, perr.New(perr.ErrorCodeDB, "want one row, got more")
	}
	return got, nil
}

// Many maps every row
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	var out []T
	err := each(ctx, q, scan, sql, args, func(item T) bool {
		out = append(out, item)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
