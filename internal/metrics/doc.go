// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package metrics defines the Prometheus collectors exported on /metrics.

All collectors are registered with the default registry through promauto at
package init, so importing the package is enough to expose them.

Metric Families:

  - thermal_*: ingestion pipeline (frames, failures by reason, stage latency,
    latest temperatures, alerts, rate-limit and auth rejections)
  - api_*: HTTP request counts, latency and in-flight requests
  - duckdb_*: record store query latency and errors
  - artifact_*: Badger heatmap store operations
  - webhook_* and circuit_breaker_*: outbound alert delivery
  - websocket_*: live viewer connections and broadcast drops
*/
package metrics
