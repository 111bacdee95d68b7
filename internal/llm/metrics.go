package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequestMS = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_ms",
		Help:    "Chat completion round trip latency (ms)",
		Buckets: prometheus.ExponentialBuckets(50, 1.6, 12),
	}, []string{"kind"})

	metricErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_errors_total",
		Help: "Failed chat completion calls",
	}, []string{"kind"})
)
