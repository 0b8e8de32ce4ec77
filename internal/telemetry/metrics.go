/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package telemetry provides Prometheus metrics and OpenTelemetry tracing.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestsTotal counts HTTP requests by method, endpoint and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidar_api_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidar_api_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections gauges in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidar_api_active_connections",
		Help: "Number of in-flight HTTP requests.",
	})

	// SchedulesGeneratedTotal counts generated rotation schedules.
	SchedulesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidar_schedules_generated_total",
		Help: "Total rotation schedules generated.",
	})

	// ConfigConflictsTotal counts rejected day configurations.
	ConfigConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidar_config_conflicts_total",
		Help: "Day configurations rejected for fixed/unavailable overlap.",
	})

	// ReportExportsTotal counts report downloads by format.
	ReportExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidar_report_exports_total",
		Help: "Total report exports by format.",
	}, []string{"format"})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
