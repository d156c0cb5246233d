// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests.
	// Labels:
	//   - method: HTTP method
	//   - route: chi route pattern (e.g. "/api/photos/{id}")
	//   - status: response status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration measures request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// LoginAttempts counts admin login attempts.
	// Labels:
	//   - outcome: "success", "failure", "invalid", "error"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
		[]string{"outcome"},
	)

	// Degraded counts operations that fell back to an empty result
	// because a collaborator failed.
	Degraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_degraded_total",
			Help: "Total number of operations served degraded after a collaborator failure",
		},
		[]string{"component", "operation"},
	)

	// VisitsRecorded counts visit events by outcome ("stored", "error").
	VisitsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_visits_recorded_total",
			Help: "Total number of visit events received",
		},
		[]string{"outcome"},
	)

	// ProviderCalls counts calls to external media providers.
	// Labels:
	//   - provider: "drive", "cloudinary"
	//   - operation: provider operation name
	//   - outcome: "success", "not_found", "failure", "rejected"
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_provider_calls_total",
			Help: "Total number of external media provider calls",
		},
		[]string{"provider", "operation", "outcome"},
	)

	// BreakerState reports circuit breaker state (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// LogEvents counts WARN and ERROR log records by category.
	LogEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_log_events_total",
			Help: "Total number of warning and error log records",
		},
		[]string{"level", "category"},
	)
)
