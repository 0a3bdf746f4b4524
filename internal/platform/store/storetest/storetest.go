// Package storetest provides in-memory fakes of the store seams for package tests
package storetest

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"bazaar/internal/platform/store"
)

// Tag is a fake command tag
type Tag int64

func (t Tag) String() string      { return "OK" }
func (t Tag) RowsAffected() int64 { return int64(t) }

// Rows replays fixed data; each row must have one value per Scan destination
type Rows struct {
	Cols   []string
	Data   [][]any
	Fail   error // returned by Err after iteration stops
	idx    int
	Closed bool
}

// NewRows builds Rows ready for iteration
func NewRows(cols []string, data ...[]any) *Rows { return &Rows{Cols: cols, Data: data, idx: -1} }

func (r *Rows) Columns() []string { return r.Cols }
func (r *Rows) Err() error        { return r.Fail }
func (r *Rows) Close()            { r.Closed = true }

func (r *Rows) Next() bool {
	if r.Fail != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.Data)
}

func (r *Rows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.Data) {
		return errors.New("scan out of bounds")
	}
	return Assign(r.Data[r.idx], dest...)
}

// Assign copies vals into pointer destinations with the conversions pgx would do for tests
func Assign(vals []any, dest ...any) error {
	if len(dest) != len(vals) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || !dv.Elem().CanSet() {
			return errors.New("dest not settable")
		}
		el := dv.Elem()
		if vals[i] == nil {
			el.Set(reflect.Zero(el.Type()))
			continue
		}
		val := reflect.ValueOf(vals[i])
		switch {
		case val.Type().AssignableTo(el.Type()):
			el.Set(val)
		case el.Kind() == reflect.Pointer && val.Type().AssignableTo(el.Type().Elem()):
			p := reflect.New(el.Type().Elem())
			p.Elem().Set(val)
			el.Set(p)
		case val.Type().ConvertibleTo(el.Type()):
			el.Set(val.Convert(el.Type()))
		default:
			return errors.New("cannot assign " + val.Type().String() + " to " + el.Type().String())
		}
	}
	return nil
}

// Row is a single-row result
type Row struct {
	Vals []any
	Err  error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return Assign(r.Vals, dest...)
}

// Call records one statement
type Call struct {
	SQL  string
	Args []any
}

// Querier is a scripted TxRunner and SnapshotRunner
// OnQuery and OnQueryRow pick results by SQL; calls are recorded in order.
type Querier struct {
	mu         sync.Mutex
	Calls      []Call
	OnExec     func(sql string, args []any) (store.CommandTag, error)
	OnQuery    func(sql string, args []any) (store.Rows, error)
	OnQueryRow func(sql string, args []any) store.Row
	TxErr      error // returned by Tx/Snapshot before running fn
	Snapshots  int
	Txs        int
}

var (
	_ store.TxRunner       = (*Querier)(nil)
	_ store.SnapshotRunner = (*Querier)(nil)
)

func (q *Querier) record(sql string, args []any) {
	q.mu.Lock()
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	q.mu.Unlock()
}

func (q *Querier) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.record(sql, args)
	if q.OnExec == nil {
		return Tag(1), nil
	}
	return q.OnExec(sql, args)
}

func (q *Querier) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.record(sql, args)
	if q.OnQuery == nil {
		return NewRows(nil), nil
	}
	return q.OnQuery(sql, args)
}

func (q *Querier) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	q.record(sql, args)
	if q.OnQueryRow == nil {
		return Row{Err: errors.New("no rows in result set")}
	}
	return q.OnQueryRow(sql, args)
}

func (q *Querier) Tx(_ context.Context, fn func(store.RowQuerier) error) error {
	q.mu.Lock()
	q.Txs++
	q.mu.Unlock()
	if q.TxErr != nil {
		return q.TxErr
	}
	return fn(q)
}

func (q *Querier) Snapshot(_ context.Context, fn func(store.RowQuerier) error) error {
	q.mu.Lock()
	q.Snapshots++
	q.mu.Unlock()
	if q.TxErr != nil {
		return q.TxErr
	}
	return fn(q)
}

// Matching returns the recorded calls whose SQL contains frag
func (q *Querier) Matching(frag string) []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Call
	for _, c := range q.Calls {
		if strings.Contains(c.SQL, frag) {
			out = append(out, c)
		}
	}
	return out
}
