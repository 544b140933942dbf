package scout

import "github.com/prometheus/client_golang/prometheus"

// Reply outcomes recorded by repliesTotal.
const (
	outcomeRecommendation = "recommendation"
	outcomePlain          = "plain"
	outcomeEmpty          = "empty"
	outcomeError          = "error"
)

var (
	// repliesTotal counts completed scout turns by how the provider answered.
	repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "keynexus",
			Subsystem: "scout",
			Name:      "replies_total",
			Help:      "Completed scout turns by outcome.",
		},
		[]string{"outcome"},
	)

	// providerLatency records provider round-trip time in seconds.
	providerLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "keynexus",
			Subsystem: "scout",
			Name:      "provider_duration_seconds",
			Help:      "Duration of text-generation provider calls in seconds.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(repliesTotal, providerLatency)
}
