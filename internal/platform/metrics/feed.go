package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Feed outcomes
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

var (
	feedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Feed pages served by kind, ranking mode and outcome",
		},
		[]string{"kind", "mode", "outcome"},
	)

	feedDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_duration_seconds",
			Help:      "Time to assemble one feed page",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"kind", "mode"},
	)

	feedWidenings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_radius_widenings_total",
			Help:      "Extra radius steps taken to fill geo pages",
		},
		[]string{"kind"},
	)

	feedInvalidCursors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_invalid_cursors_total",
			Help:      "Cursors that failed verification or did not match the request and were ignored",
		},
		[]string{"kind"},
	)

	feedAggregateSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_aggregate_skips_total",
			Help:      "Listings dropped from a page because their row could not be assembled",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(feedRequests, feedDuration, feedWidenings, feedInvalidCursors, feedAggregateSkips)
}

// FeedServed records one finished feed request
func FeedServed(kind, mode, outcome string, took time.Duration) {
	feedRequests.WithLabelValues(kind, mode, outcome).Inc()
	feedDuration.WithLabelValues(kind, mode).Observe(took.Seconds())
}

// FeedWidened adds n radius widening steps
func FeedWidened(kind string, n int) {
	if n > 0 {
		feedWidenings.WithLabelValues(kind).Add(float64(n))
	}
}

// FeedInvalidCursor counts one ignored cursor
func FeedInvalidCursor(kind string) { feedInvalidCursors.WithLabelValues(kind).Inc() }

// FeedAggregateSkip counts one listing dropped during assembly
func FeedAggregateSkip(kind string) { feedAggregateSkips.WithLabelValues(kind).Inc() }
