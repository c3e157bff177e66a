package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application counters. Registered on the default registry, served by the
// metrics server in prometheus.go.
var (
	VisitsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visits_recorded_total",
		Help: "Visit reports that resulted in a stored row.",
	})

	VisitsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visits_suppressed_total",
		Help: "Visit reports suppressed by the 30-minute dedup window.",
	})

	DistinctVisitors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visits_distinct_visitors_estimate_total",
		Help: "Approximate count of distinct visitor ids seen since process start (bloom filter gated).",
	})

	ContactMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_messages_total",
		Help: "Contact form submissions stored.",
	})
)
