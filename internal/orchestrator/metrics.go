package orchestrator

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    metricStateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "orch_state_transitions_total",
        Help: "Session turn state transitions",
    }, []string{"from", "to"})

    metricIntents = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "orch_intents_total",
        Help: "Classified utterances by intent",
    }, []string{"intent"})

    metricSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
        Name: "orch_sessions_active",
        Help: "Open ordering sessions",
    })

    metricApologies = promauto.NewCounter(prometheus.CounterOpts{
        Name: "orch_apologies_total",
        Help: "Turns answered with the generic apology after a model failure",
    })

    metricTicketErrors = promauto.NewCounter(prometheus.CounterOpts{
        Name: "orch_ticket_errors_total",
        Help: "Confirmed orders the kitchen sink rejected",
    })
)
