// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// initialize creates sequences, tables and indexes if they do not exist.
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func schemaQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS frames_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS alerts_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS frames (
			id BIGINT PRIMARY KEY DEFAULT nextval('frames_id_seq'),
			ts TIMESTAMP NOT NULL,
			filename TEXT NOT NULL,
			min_temp DOUBLE NOT NULL,
			max_temp DOUBLE NOT NULL,
			mean_temp DOUBLE NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS alerts (
			id BIGINT PRIMARY KEY DEFAULT nextval('alerts_id_seq'),
			ts TIMESTAMP NOT NULL,
			frame_id BIGINT NOT NULL REFERENCES frames(id),
			message TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_frames_ts ON frames(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts)`,
	}
}
