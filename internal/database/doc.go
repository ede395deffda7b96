// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package database is the DuckDB-backed record store for frames and alerts.

Tables:
  - frames: one row per accepted frame (timestamp, artifact filename, min/max/mean)
  - alerts: one row per temperature-swing alert, referencing frames(id)

Both tables are append-only. Rows are never updated or deleted. Identifiers
come from sequences and are returned through INSERT ... RETURNING id, since
DuckDB does not report LastInsertId for sequence-backed keys.

Writes are serialized with a mutex so concurrent uploads append cleanly; reads
run concurrently. Every query is timed into the duckdb_* Prometheus metrics.
*/
package database
