package pg

import (
	"context"
	"errors"
	"testing"

	"bazaar/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dsn = "postgres://bazaar:secret@db:5432/bazaar?sslmode=disable"

func TestOpen_Errors(t *testing.T) {
	testkit.Serial(t)

	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatal("bad url accepted")
	}

	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("dial refused")
	})
	if _, err := Open(context.Background(), Config{URL: dsn}, nil, nil); err == nil {
		t.Fatal("pool error swallowed")
	}
}

func TestOpen_SessionSettings(t *testing.T) {
	testkit.Serial(t)

	tests := []struct {
		name     string
		cfg      Config
		maxConns int32
		app      string
		timeout  string
	}{
		{"defaults keep the dsn", Config{URL: dsn}, 0, "", ""},
		{"api", Config{URL: dsn, MaxConns: 8, AppName: "bazaar-api", StatementTimeoutMs: 4000}, 8, "bazaar-api", "4000"},
		{"tally", Config{URL: dsn, MaxConns: 2, AppName: "bazaar-tally"}, 2, "bazaar-tally", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen *pgxpool.Config
			// a zero pool is never dialed or closed here
			testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
				seen = pc
				return &pgxpool.Pool{}, nil
			})

			tc.cfg.SlowMs = 250
			p, err := Open(context.Background(), tc.cfg, nil, nil)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if p.SlowMs != 250 || p.Pool == nil {
				t.Fatalf("pg = %+v", p)
			}
			if tc.maxConns > 0 && seen.MaxConns != tc.maxConns {
				t.Fatalf("MaxConns = %d", seen.MaxConns)
			}
			rp := seen.ConnConfig.RuntimeParams
			if rp["application_name"] != tc.app || rp["statement_timeout"] != tc.timeout {
				t.Fatalf("runtime params = %v", rp)
			}
		})
	}
}

func TestOpen_MutatorRunsLast(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		if pc.MaxConns != 3 {
			t.Errorf("mutator lost: MaxConns = %d", pc.MaxConns)
		}
		return &pgxpool.Pool{}, nil
	})
	_, err := Open(context.Background(), Config{URL: dsn, MaxConns: 9}, nil, func(pc *pgxpool.Config) { pc.MaxConns = 3 })
	if err != nil {
		t.Fatal(err)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
