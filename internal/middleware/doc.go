// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package middleware provides HTTP middleware shared by every route.
//
//   - RequestID assigns X-Request-ID and seeds the logging context.
//   - PrometheusMetrics records request counts, latency and in-flight
//     requests, labeled by chi route pattern.
//
// Both are plain func(http.Handler) http.Handler and mount with chi's Use.
package middleware
