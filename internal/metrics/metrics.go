package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeUpstream   = "upstream_error"
	OutcomeMalformed  = "malformed_response"
	OutcomeInternal   = "internal_error"
)

var (
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bff_generations_total",
			Help: "Total number of query generation requests by outcome.",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bff_llm_request_duration_seconds",
			Help:    "Latency of completion API calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	HistoryAppendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bff_history_append_failures_total",
		Help: "Total number of history records that could not be persisted.",
	})

	HistoryListFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bff_history_list_failures_total",
		Help: "Total number of history listings served empty because the store was unavailable.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bff_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bff_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
