package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// deafPG is a TxRunner without Ping
type deafPG struct{}

func (deafPG) Tx(context.Context, func(RowQuerier) error) error         { return nil }
func (deafPG) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (deafPG) Query(context.Context, string, ...any) (Rows, error)      { return nil, nil }
func (deafPG) QueryRow(context.Context, string, ...any) Row             { return nil }

type pingPG struct {
	deafPG
	err error
}

func (p pingPG) Ping(context.Context) error { return p.err }

func TestGuard(t *testing.T) {
	refused := errors.New("refused")
	tests := []struct {
		name    string
		store   *Store
		want    []string // substrings of the joined error; nil means healthy
		notWant string
	}{
		{name: "nil store", store: nil, want: []string{"nil store"}},
		{name: "nothing enabled", store: &Store{}},
		{name: "pg without ping is skipped", store: &Store{PG: deafPG{}}},
		{name: "pg healthy", store: &Store{PG: pingPG{}}},
		{name: "pg down", store: &Store{PG: pingPG{err: refused}}, want: []string{"pg: refused"}},
		{
			name:    "only the failing seam is named",
			store:   &Store{PG: pingPG{}, RDS: &fakeKV{pingErr: errors.New("redis refused")}},
			want:    []string{"redis: redis refused"},
			notWant: "pg:",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.store.Guard(context.Background())
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Guard = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Guard passed")
			}
			for _, w := range tc.want {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("Guard = %q, want %q", err, w)
				}
			}
			if tc.notWant != "" && strings.Contains(err.Error(), tc.notWant) {
				t.Fatalf("Guard = %q mentions %q", err, tc.notWant)
			}
		})
	}
}
