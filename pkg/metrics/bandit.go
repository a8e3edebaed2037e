package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of the advisor HTTP handlers
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisor_http_request_duration_seconds",
		Help:    "Latency of advisor HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})

	// Total number of recommendations served over HTTP
	RecommendRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_recommend_requests_total",
		Help: "Total number of recommendation requests",
	})

	// Feedback requests by kind (signal, outcome)
	FeedbackRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_feedback_requests_total",
		Help: "Total number of feedback requests by kind",
	}, []string{"kind"})
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			RecommendRequests,
			FeedbackRequests,
		)
	})
}
