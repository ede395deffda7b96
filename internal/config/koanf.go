// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/thermalwatch/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultAPIKey is the placeholder secret shipped for local development.
const DefaultAPIKey = "CHANGE_ME"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5000,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Auth: AuthConfig{
			APIKey: DefaultAPIKey,
		},
		Storage: StorageConfig{
			DataDir: "./data",
		},
		Database: DatabaseConfig{
			MaxMemory: "512MB",
		},
		Artifacts: ArtifactConfig{
			SyncWrites: true,
		},
		Ingest: IngestConfig{
			MaxFrameB64Size:   250000,
			DefaultWidth:      80,
			DefaultHeight:     62,
			RateLimitRequests: 5,
			RateLimitWindow:   time.Second,
			HistoryLimit:      200,
		},
		Alert: AlertConfig{
			Threshold:       5.0,
			WebhookTimeout:  3 * time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:            []string{"*"},
			QueryRateLimitRequests: 120,
			QueryRateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration in three layers (defaults, file, env),
// resolves derived paths and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"thermal_api_key": "auth.api_key",

	"data_dir":             "storage.data_dir",
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"artifact_path":        "artifacts.path",
	"artifact_in_memory":   "artifacts.in_memory",
	"artifact_sync_writes": "artifacts.sync_writes",

	"max_frame_b64_size":   "ingest.max_frame_b64_size",
	"default_frame_width":  "ingest.default_width",
	"default_frame_height": "ingest.default_height",
	"rate_limit_requests":  "ingest.rate_limit_requests",
	"rate_limit_window":    "ingest.rate_limit_window",
	"history_limit":        "ingest.history_limit",

	"alert_threshold":          "alert.threshold",
	"alert_webhook":            "alert.webhook_url",
	"webhook_timeout":          "alert.webhook_timeout",
	"webhook_breaker_failures": "alert.breaker_failures",
	"webhook_breaker_timeout":  "alert.breaker_timeout",

	"cors_origins":              "security.cors_origins",
	"query_rate_limit_requests": "security.query_rate_limit_requests",
	"query_rate_limit_window":   "security.query_rate_limit_window",
	"disable_query_rate_limit":  "security.query_rate_limit_disabled",
	"trusted_proxies":           "security.trusted_proxies",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
