package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"bazaar/internal/platform/metrics"
	phttp "bazaar/internal/platform/net/http"
	"bazaar/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout     time.Duration // request budget enforced by chi; 0 means 30s
	SlowLog     time.Duration // access log warns at or above; 0 disables
	MaxInFlight int           // 0 disables throttling
	Quiet       []string      // paths served without an access log line, e.g. probes
	CORS        middleware.CORSOptions
}

// CommonStack is the per API middleware chain, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON(phttp.JSON),
		middleware.Identify(phttp.JSON),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowLog, Quiet: o.Quiet}),
		metrics.Middleware(),
		middleware.CORS(o.CORS),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
	}
	if o.MaxInFlight > 0 {
		stack = append(stack, middleware.Throttle(o.MaxInFlight, o.MaxInFlight*4, o.Timeout))
	}
	return append(stack, middleware.Timeout(o.Timeout))
}

// Heartbeat answers GET path with 200 ahead of every other middleware
func Heartbeat(path string) func(http.Handler) http.Handler { return middleware.Heartbeat(path) }
