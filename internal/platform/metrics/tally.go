package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	tallyDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tally_events_dropped_total",
		Help:      "Search events dropped because the sink buffer was full",
	})

	tallyFlushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tally_flushed_total",
			Help:      "Rows written by tally flushes by target",
		},
		[]string{"target"},
	)

	tallyFlushErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tally_flush_errors_total",
			Help:      "Failed tally flushes by target",
		},
		[]string{"target"},
	)
)

func init() {
	prometheus.MustRegister(tallyDropped, tallyFlushed, tallyFlushErrors)
}

// TallyDropped counts one search event the sink could not buffer
func TallyDropped() { tallyDropped.Inc() }

// TallyFlushed records a flush to target; err marks it failed
func TallyFlushed(target string, rows int, err error) {
	if err != nil {
		tallyFlushErrors.WithLabelValues(target).Inc()
		return
	}
	tallyFlushed.WithLabelValues(target).Add(float64(rows))
}
