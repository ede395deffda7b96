// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/thermalwatch/internal/config"
	"github.com/tomtom215/thermalwatch/internal/logging"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the DuckDB connection and provides data access methods
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// writeMu serializes appends; DuckDB allows a single writer per table.
	writeMu sync.Mutex

	// now is truncated to microseconds, DuckDB's TIMESTAMP precision.
	now func() time.Time
}

// New opens the database described by cfg and initializes the schema
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.Path != MemoryPath && cfg.Path != "" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", connectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("DuckDB record store ready")
	return db, nil
}

// connectionString appends tuning options to the path when set.
func connectionString(cfg *config.DatabaseConfig) string {
	path := cfg.Path

	var opts []string
	if cfg.Threads > 0 {
		opts = append(opts, fmt.Sprintf("threads=%d", cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		opts = append(opts, "max_memory="+cfg.MaxMemory)
	}
	if len(opts) == 0 {
		return path
	}

	connStr := path + "?" + opts[0]
	for _, o := range opts[1:] {
		connStr += "&" + o
	}
	return connStr
}

// Ping verifies the connection is usable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
