// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig   `koanf:"server"`
	Auth      AuthConfig     `koanf:"auth"`
	Storage   StorageConfig  `koanf:"storage"`
	Database  DatabaseConfig `koanf:"database"`
	Artifacts ArtifactConfig `koanf:"artifacts"`
	Ingest    IngestConfig   `koanf:"ingest"`
	Alert     AlertConfig    `koanf:"alert"`
	Security  SecurityConfig `koanf:"security"`
	Logging   LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// AuthConfig holds the shared secret for the ingestion endpoint
type AuthConfig struct {
	APIKey string `koanf:"api_key"`
}

// StorageConfig holds the root data directory. Database and artifact paths
// default to files beneath it.
type StorageConfig struct {
	DataDir string `koanf:"data_dir"`
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	// Path to the DuckDB file. Empty means <data_dir>/frames.duckdb.
	// ":memory:" opens a throwaway in-memory database.
	Path string `koanf:"path"`

	// MaxMemory is passed through as DuckDB's max_memory setting (e.g. "512MB").
	MaxMemory string `koanf:"max_memory"`

	// Threads sets DuckDB's worker threads. 0 leaves the engine default.
	Threads int `koanf:"threads"`
}

// ArtifactConfig holds the Badger heatmap store settings
type ArtifactConfig struct {
	// Path to the Badger directory. Empty means <data_dir>/artifacts.
	Path string `koanf:"path"`

	// InMemory keeps artifacts in RAM only (tests and demos).
	InMemory bool `koanf:"in_memory"`

	// SyncWrites fsyncs every artifact write.
	SyncWrites bool `koanf:"sync_writes"`
}

// IngestConfig holds frame ingestion limits
type IngestConfig struct {
	MaxFrameB64Size   int           `koanf:"max_frame_b64_size"`
	DefaultWidth      int           `koanf:"default_width"`
	DefaultHeight     int           `koanf:"default_height"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	HistoryLimit      int           `koanf:"history_limit"`
}

// AlertConfig holds alerting and webhook settings
type AlertConfig struct {
	Threshold      float64       `koanf:"threshold"`
	WebhookURL     string        `koanf:"webhook_url"`
	WebhookTimeout time.Duration `koanf:"webhook_timeout"`

	// BreakerFailures consecutive webhook failures open the circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds CORS, viewer-route throttling and proxy trust
type SecurityConfig struct {
	CORSOrigins            []string      `koanf:"cors_origins"`
	QueryRateLimitRequests int           `koanf:"query_rate_limit_requests"`
	QueryRateLimitWindow   time.Duration `koanf:"query_rate_limit_window"`
	QueryRateLimitDisabled bool          `koanf:"query_rate_limit_disabled"`

	// TrustedProxies lists peer IPs whose X-Forwarded-For / X-Real-IP
	// headers name the client. Empty means headers are never honored.
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// LoggingConfig holds zerolog settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// resolvePaths fills storage paths left empty with locations under DataDir.
func (c *Config) resolvePaths() {
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.Storage.DataDir, "frames.duckdb")
	}
	if c.Artifacts.Path == "" {
		c.Artifacts.Path = filepath.Join(c.Storage.DataDir, "artifacts")
	}
}

// WebhookEnabled reports whether alert notifications should be sent.
func (c *Config) WebhookEnabled() bool {
	return c.Alert.WebhookURL != ""
}
