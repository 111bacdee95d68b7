package tickets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tickets_submitted_total",
	Help: "Kitchen ticket submissions by backend and outcome",
}, []string{"backend", "status"})
