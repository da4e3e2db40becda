package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssignmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "delivery", Name: "assignment_outcomes_total", Help: "Assignment attempts by outcome"},
		[]string{"outcome"},
	)
	AssignmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "delivery",
		Name:      "assignment_duration_seconds",
		Help:      "Time spent in a single assignment attempt",
		Buckets:   prometheus.DefBuckets,
	})
	AssignmentErrors = promauto.NewCounter(prometheus.CounterOpts{Namespace: "delivery", Name: "assignment_errors_total", Help: "Assignment attempts that failed with an infrastructure error"})
	QueueDepth       = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "delivery", Name: "assignment_queue_depth", Help: "Orders waiting in the assignment queue"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "delivery", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "delivery",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
