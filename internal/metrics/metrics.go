// Package metrics provides Prometheus metrics for the tax wizard API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks inbound requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxwizard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxwizard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// AICallsTotal tracks upstream completion calls by outcome
	AICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taxwizard",
			Subsystem: "ai",
			Name:      "calls_total",
			Help:      "Total number of calls to the AI completion service",
		},
		[]string{"outcome"},
	)

	// AICallDuration tracks upstream completion latency
	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxwizard",
			Subsystem: "ai",
			Name:      "call_duration_seconds",
			Help:      "Duration of calls to the AI completion service in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"outcome"},
	)

	// StoredForms is the number of tax forms currently held by the store
	StoredForms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "taxwizard",
			Subsystem: "store",
			Name:      "tax_forms",
			Help:      "Number of stored tax forms",
		},
	)
)

// AI call outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeError         = "error"
	OutcomeNotConfigured = "not_configured"
)
