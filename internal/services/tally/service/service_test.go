package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bazaar/internal/platform/store"
	"bazaar/internal/platform/store/storetest"
	"bazaar/internal/platform/testkit"
	"bazaar/internal/services/tally/domain"
	"bazaar/internal/services/tally/repo"
)

// memKV is an in-memory store.KV
type memKV struct {
	mu       sync.Mutex
	hashes   map[string]map[string]int64
	drainErr map[string]error
}

func newMemKV() *memKV {
	return &memKV{hashes: map[string]map[string]int64{}, drainErr: map[string]error{}}
}

func (m *memKV) HIncrBy(_ context.Context, key, field string, by int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hashes[key]
	if h == nil {
		h = map[string]int64{}
		m.hashes[key] = h
	}
	h[field] += by
	return h[field], nil
}

func (m *memKV) HDrain(_ context.Context, key string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.drainErr[key]; err != nil {
		return nil, err
	}
	h := m.hashes[key]
	delete(m.hashes, key)
	if h == nil {
		h = map[string]int64{}
	}
	return h, nil
}

func (m *memKV) Close() error { return nil }

var _ store.KV = (*memKV)(nil)

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newSvc(q *storetest.Querier, kv *memKV, backend string) *Svc {
	var c *repo.Counters
	if kv != nil {
		c = repo.NewCounters(kv)
	}
	s := New(q, repo.NewPG(), c, Config{
		Backend:     backend,
		Kinds:       []string{"services", "local-jobs"},
		LockTimeout: 2 * time.Second,
	})
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestNew_Panics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), nil, Config{}) })
	testkit.MustPanic(t, func() { New(&storetest.Querier{}, nil, nil, Config{}) })
	testkit.MustPanic(t, func() { New(&storetest.Querier{}, repo.NewPG(), nil, Config{Backend: BackendRedis}) })
}

func TestIncrement_Postgres(t *testing.T) {
	q := &storetest.Querier{}
	s := newSvc(q, nil, BackendPG)

	if err := s.Increment(context.Background(), "services", "plumber"); err != nil {
		t.Fatal(err)
	}
	if err := s.Increment(context.Background(), "services", ""); err != nil {
		t.Fatal(err)
	}
	calls := q.Matching("INSERT INTO search_terms")
	if len(calls) != 1 {
		t.Fatalf("upserts = %d", len(calls))
	}
	args := calls[0].Args
	if args[0] != "services" || args[1] != "plumber" || args[2] != int64(1) || args[3] != fixedNow {
		t.Fatalf("args = %v", args)
	}
}

func TestIncrement_Redis(t *testing.T) {
	q := &storetest.Querier{}
	kv := newMemKV()
	s := newSvc(q, kv, BackendRedis)

	for range 3 {
		if err := s.Increment(context.Background(), "local-jobs", "barista"); err != nil {
			t.Fatal(err)
		}
	}
	if got := kv.hashes[repo.Key("local-jobs")]["barista"]; got != 3 {
		t.Fatalf("count = %d", got)
	}
	if len(q.Calls) != 0 {
		t.Fatalf("redis backend touched postgres: %v", q.Calls)
	}
}

func TestPopular(t *testing.T) {
	seen := fixedNow.Add(-time.Hour)
	q := &storetest.Querier{
		OnQuery: func(sql string, args []any) (store.Rows, error) {
			return storetest.NewRows([]string{"term", "hits", "last_seen_at"},
				[]any{"plumber", int64(9), seen},
				[]any{"painter", int64(4), seen},
			), nil
		},
	}
	s := newSvc(q, nil, BackendPG)

	got, err := s.Popular(context.Background(), domain.PopularInput{Kind: "services"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Term != "plumber" || got[0].Hits != 9 || !got[1].LastSeenAt.Equal(seen) {
		t.Fatalf("got %+v", got)
	}
	if args := q.Calls[0].Args; args[0] != "services" || args[1] != 10 {
		t.Fatalf("args = %v", args)
	}

	if _, err := s.Popular(context.Background(), domain.PopularInput{Kind: "services", Limit: 3}); err != nil {
		t.Fatal(err)
	}
	if args := q.Calls[1].Args; args[1] != 3 {
		t.Fatalf("limit = %v", args[1])
	}
}

func TestPopular_StoreError(t *testing.T) {
	q := &storetest.Querier{OnQuery: func(string, []any) (store.Rows, error) { return nil, errors.New("conn reset") }}
	if _, err := newSvc(q, nil, BackendPG).Popular(context.Background(), domain.PopularInput{Kind: "services"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFlush_DrainsIntoPostgres(t *testing.T) {
	q := &storetest.Querier{}
	kv := newMemKV()
	s := newSvc(q, kv, BackendRedis)
	ctx := context.Background()
	_, _ = kv.HIncrBy(ctx, repo.Key("services"), "welder", 2)
	_, _ = kv.HIncrBy(ctx, repo.Key("services"), "electrician", 5)

	n, err := s.Flush(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || q.Txs != 1 {
		t.Fatalf("n=%d txs=%d", n, q.Txs)
	}
	if lock := q.Matching("SET LOCAL lock_timeout = 2000"); len(lock) != 1 {
		t.Fatalf("calls = %v", q.Calls)
	}
	ups := q.Matching("INSERT INTO search_terms")
	if len(ups) != 2 || ups[0].Args[1] != "electrician" || ups[0].Args[2] != int64(5) || ups[1].Args[1] != "welder" {
		t.Fatalf("upserts = %v", ups)
	}
	if len(kv.hashes) != 0 {
		t.Fatalf("pending counts left: %v", kv.hashes)
	}

	if n, err := s.Flush(ctx); err != nil || n != 0 {
		t.Fatalf("empty flush = %d %v", n, err)
	}
}

func TestFlush_PartialFailure(t *testing.T) {
	q := &storetest.Querier{}
	kv := newMemKV()
	kv.drainErr[repo.Key("services")] = errors.New("redis down")
	_, _ = kv.HIncrBy(context.Background(), repo.Key("local-jobs"), "cook", 1)
	s := newSvc(q, kv, BackendRedis)

	n, err := s.Flush(context.Background())
	if err == nil || n != 1 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	testkit.MustContain(t, err.Error(), "1 of 2 kinds failed")
}

func TestFlush_PostgresBackendIsNoop(t *testing.T) {
	q := &storetest.Querier{}
	if n, err := newSvc(q, newMemKV(), BackendPG).Flush(context.Background()); n != 0 || err != nil || q.Txs != 0 {
		t.Fatalf("n=%d err=%v txs=%d", n, err, q.Txs)
	}
}
