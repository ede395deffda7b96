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

// InsertFrame appends a frame record stamped with the current time and
// returns it with its generated ID. The write is committed before return.
func (db *DB) InsertFrame(ctx context.Context, filename string, minTemp, maxTemp, meanTemp float64) (*models.FrameRecord, error) {
	rec := &models.FrameRecord{
		Filename: filename,
		Min:      minTemp,
		Max:      maxTemp,
		Mean:     meanTemp,
	}

	start := time.Now()
	db.writeMu.Lock()
	rec.Timestamp = db.now()
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO frames (ts, filename, min_temp, max_temp, mean_temp)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		rec.Timestamp, rec.Filename, rec.Min, rec.Max, rec.Mean,
	).Scan(&rec.ID)
	db.writeMu.Unlock()
	metrics.RecordDBQuery("INSERT", "frames", time.Since(start), err)

	if err != nil {
		return nil, &PersistenceError{Op: "insert frame", Err: err}
	}
	return rec, nil
}

// ListFrames returns up to limit frames, newest first. Ties on timestamp are
// broken by descending ID.
func (db *DB) ListFrames(ctx context.Context, limit int) ([]models.FrameRecord, error) {
	if limit <= 0 {
		return []models.FrameRecord{}, nil
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, ts, filename, min_temp, max_temp, mean_temp
		 FROM frames
		 ORDER BY ts DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		metrics.RecordDBQuery("SELECT", "frames", time.Since(start), err)
		return nil, &PersistenceError{Op: "list frames", Err: err}
	}
	defer closeWithLog(rows, "rows")

	frames := make([]models.FrameRecord, 0, limit)
	for rows.Next() {
		var f models.FrameRecord
		if err := rows.Scan(&f.ID, &f.Timestamp, &f.Filename, &f.Min, &f.Max, &f.Mean); err != nil {
			return nil, &PersistenceError{Op: "scan frame", Err: err}
		}
		frames = append(frames, f)
	}
	err = rows.Err()
	metrics.RecordDBQuery("SELECT", "frames", time.Since(start), err)
	if err != nil {
		return nil, &PersistenceError{Op: "list frames", Err: err}
	}
	return frames, nil
}

// GetFrame returns a single frame by ID, or ErrNotFound.
func (db *DB) GetFrame(ctx context.Context, id int64) (*models.FrameRecord, error) {
	start := time.Now()
	var f models.FrameRecord
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, ts, filename, min_temp, max_temp, mean_temp FROM frames WHERE id = ?`, id,
	).Scan(&f.ID, &f.Timestamp, &f.Filename, &f.Min, &f.Max, &f.Mean)

	if errors.Is(err, sql.ErrNoRows) {
		metrics.RecordDBQuery("SELECT", "frames", time.Since(start), nil)
		return nil, ErrNotFound
	}
	metrics.RecordDBQuery("SELECT", "frames", time.Since(start), err)
	if err != nil {
		return nil, &PersistenceError{Op: "get frame", Err: err}
	}
	return &f, nil
}

// GetFrameArtifactRef returns the artifact filename recorded for a frame.
func (db *DB) GetFrameArtifactRef(ctx context.Context, id int64) (string, error) {
	f, err := db.GetFrame(ctx, id)
	if err != nil {
		return "", err
	}
	return f.Filename, nil
}
