package pg

import (
	"context"
	"strings"

	"bazaar/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement when SQL logging is on
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// TracerOption tweaks the logging tracer
type TracerOption func(*zlTracer)

// WithRequestID tags each line with the request id found by fn
func WithRequestID(fn func(context.Context) (string, bool)) TracerOption {
	return func(z *zlTracer) { z.reqID = fn }
}

// Tracer logs statements at debug and slow ones at warn
// It pins its own level so LOG_SQL works regardless of the root level.
func Tracer(root logger.Logger, opts ...TracerOption) QueryTracer {
	z := &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
	for _, o := range opts {
		o(z)
	}
	return z
}

type zlTracer struct {
	log   logger.Logger
	reqID func(context.Context) (string, bool)
}

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Debug()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if z.reqID != nil {
		if id, ok := z.reqID(ctx); ok {
			evt = evt.Str("request_id", id)
		}
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds whitespace runs into one space so multi-line SQL fits on a log line
func compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\n', '\t', '\r':
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
