// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomtom215/thermalwatch/internal/metrics"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// InsertAlert appends an alert for frameID. It returns *ReferentialError when
// the frame does not exist.
func (db *DB) InsertAlert(ctx context.Context, frameID int64, message string) (*models.AlertRecord, error) {
	rec := &models.AlertRecord{FrameID: frameID, Message: message}

	start := time.Now()
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	var exists int
	err := db.conn.QueryRowContext(ctx, `SELECT 1 FROM frames WHERE id = ?`, frameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ReferentialError{FrameID: frameID}
	}
	if err != nil {
		metrics.RecordDBQuery("SELECT", "frames", time.Since(start), err)
		return nil, &PersistenceError{Op: "check frame", Err: err}
	}

	rec.Timestamp = db.now()
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO alerts (ts, frame_id, message) VALUES (?, ?, ?) RETURNING id`,
		rec.Timestamp, rec.FrameID, rec.Message,
	).Scan(&rec.ID)
	metrics.RecordDBQuery("INSERT", "alerts", time.Since(start), err)

	if err != nil {
		return nil, &PersistenceError{Op: "insert alert", Err: err}
	}
	return rec, nil
}

// ListAlerts returns up to limit alerts, newest first.
func (db *DB) ListAlerts(ctx context.Context, limit int) ([]models.AlertRecord, error) {
	if limit <= 0 {
		return []models.AlertRecord{}, nil
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, ts, frame_id, message
		 FROM alerts
		 ORDER BY ts DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		metrics.RecordDBQuery("SELECT", "alerts", time.Since(start), err)
		return nil, &PersistenceError{Op: "list alerts", Err: err}
	}
	defer closeWithLog(rows, "rows")

	alerts := make([]models.AlertRecord, 0, limit)
	for rows.Next() {
		var a models.AlertRecord
		if err := rows.Scan(&a.ID, &a.Timestamp, &a.FrameID, &a.Message); err != nil {
			return nil, &PersistenceError{Op: "scan alert", Err: err}
		}
		alerts = append(alerts, a)
	}
	err = rows.Err()
	metrics.RecordDBQuery("SELECT", "alerts", time.Since(start), err)
	if err != nil {
		return nil, &PersistenceError{Op: "list alerts", Err: err}
	}
	return alerts, nil
}
