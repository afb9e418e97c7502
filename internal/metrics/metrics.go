// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rmp"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time until the handler returned. Streamed bodies continue after this.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ProjectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projection_total",
			Help:      "Query vectors passed through the random projection.",
		},
		[]string{"outcome"}, // reduced | noop
	)

	ChatStreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_stream_errors_total",
			Help:      "Chat pipeline failures by stage.",
		},
		[]string{"stage"}, // embed | project | retrieve | complete | stream
	)
)

// Projection outcome labels.
const (
	OutcomeReduced = "reduced"
	OutcomeNoop    = "noop"
)
