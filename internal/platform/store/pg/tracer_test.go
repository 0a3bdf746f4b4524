package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type reqKey struct{}

func TestCompact(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"":                            "",
		"select 1":                    "select 1",
		"  select   1  ":              " select 1 ",
		"SELECT\t*\nFROM\r\tlistings": "SELECT * FROM listings",
		"\n\nA\n\tB  C\r\nD":          " A B C D",
	} {
		if got := compact(in); got != want {
			t.Errorf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

type traced struct {
	Level     string  `json:"level"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Slow      bool    `json:"slow"`
	SQL       string  `json:"sql"`
	Args      []any   `json:"args"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
	Component string  `json:"component"`
	RequestID string  `json:"request_id"`
}

func TestTracer_Lines(t *testing.T) {
	t.Parallel()

	byKey := WithRequestID(func(ctx context.Context) (string, bool) {
		id, ok := ctx.Value(reqKey{}).(string)
		return id, ok
	})
	tagged := context.WithValue(context.Background(), reqKey{}, "req-7")

	cases := []struct {
		name      string
		ctx       context.Context
		ev        QueryEvent
		wantLevel string
		wantReq   string
		wantErr   string
	}{
		{
			name:      "fast with request id",
			ctx:       tagged,
			ev:        QueryEvent{SQL: "SELECT  id \n FROM  listings\tWHERE id = $1", Args: []any{7}, ElapsedUS: 1500},
			wantLevel: "debug",
			wantReq:   "req-7",
		},
		{
			name:      "slow failure",
			ctx:       context.Background(),
			ev:        QueryEvent{SQL: "SELECT 1", ElapsedUS: 250000, Slow: true, Err: errors.New("boom")},
			wantLevel: "warn",
			wantErr:   "boom",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel), byKey).OnQuery(tc.ctx, tc.ev)

			var got traced
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
				t.Fatalf("decode %q: %v", buf.String(), err)
			}
			if got.Level != tc.wantLevel || got.Slow != tc.ev.Slow {
				t.Fatalf("level=%q slow=%v", got.Level, got.Slow)
			}
			if got.Message != "pg query" || got.Component != "pg" {
				t.Fatalf("message=%q component=%q", got.Message, got.Component)
			}
			if got.RequestID != tc.wantReq || got.Error != tc.wantErr {
				t.Fatalf("request_id=%q error=%q", got.RequestID, got.Error)
			}
			if got.SQL != compact(tc.ev.SQL) {
				t.Fatalf("sql=%q", got.SQL)
			}
			if want := float64(tc.ev.ElapsedUS) / 1000; got.ElapsedMS != want {
				t.Fatalf("elapsed_ms=%v want %v", got.ElapsedMS, want)
			}
		})
	}
}
