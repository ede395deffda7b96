// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion Pipeline Metrics
	FramesIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thermal_frames_ingested_total",
			Help: "Total number of frames accepted and persisted",
		},
	)

	IngestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermal_ingest_failures_total",
			Help: "Total number of rejected or failed uploads by reason",
		},
		[]string{"reason"}, // bad_request, decode, shape, too_large, unauthorized, rate_limited, render, persistence, internal
	)

	IngestStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thermal_ingest_stage_duration_seconds",
			Help:    "Duration of each ingestion stage in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"stage"}, // decode, analyze, render, persist, alert
	)

	FrameTemperature = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thermal_frame_temperature_celsius",
			Help: "Statistics of the most recently accepted frame",
		},
		[]string{"stat"}, // min, max, mean
	)

	AlertsRaised = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thermal_alerts_total",
			Help: "Total number of temperature-swing alerts recorded",
		},
	)

	RateLimitedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thermal_rate_limited_total",
			Help: "Total number of uploads denied by the per-source limiter",
		},
	)

	RateLimitSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thermal_rate_limit_sources",
			Help: "Number of source keys tracked by the ingestion limiter",
		},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thermal_auth_failures_total",
			Help: "Total number of uploads rejected by the access gate",
		},
		[]string{"reason"}, // missing, invalid
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Artifact Store Metrics
	ArtifactOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artifact_operation_duration_seconds",
			Help:    "Duration of heatmap artifact store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // put, set_latest, get, latest
	)

	ArtifactBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artifact_bytes_written_total",
			Help: "Total bytes of heatmap JPEG written to the artifact store",
		},
	)

	// Webhook Metrics
	WebhookNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_notifications_total",
			Help: "Total number of outbound alert notifications by result",
		},
		[]string{"notifier", "result"}, // success, failure, rejected
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// WebSocket Metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket viewer connections",
		},
	)

	WSMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of broadcast messages dropped because a buffer was full",
		},
		[]string{"message_type"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordIngestStage observes the duration of one pipeline stage
func RecordIngestStage(stage string, duration time.Duration) {
	IngestStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordIngestFailure counts a rejected or failed upload
func RecordIngestFailure(reason string) {
	IngestFailures.WithLabelValues(reason).Inc()
}

// RecordFrame updates frame counters and latest-temperature gauges
func RecordFrame(minTemp, maxTemp, meanTemp float64) {
	FramesIngested.Inc()
	FrameTemperature.WithLabelValues("min").Set(minTemp)
	FrameTemperature.WithLabelValues("max").Set(maxTemp)
	FrameTemperature.WithLabelValues("mean").Set(meanTemp)
}

// RecordArtifactOperation observes an artifact store call
func RecordArtifactOperation(operation string, duration time.Duration) {
	ArtifactOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
