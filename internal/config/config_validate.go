// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateAlert(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.APIKey == "" {
		return fmt.Errorf("THERMAL_API_KEY must not be empty")
	}
	if c.IsProduction() && c.Auth.APIKey == DefaultAPIKey {
		return fmt.Errorf("THERMAL_API_KEY=%s is not allowed when ENVIRONMENT=production", DefaultAPIKey)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.MaxFrameB64Size < 1 {
		return fmt.Errorf("MAX_FRAME_B64_SIZE must be positive")
	}
	if c.Ingest.DefaultWidth < 1 || c.Ingest.DefaultHeight < 1 {
		return fmt.Errorf("DEFAULT_FRAME_WIDTH and DEFAULT_FRAME_HEIGHT must be at least 1")
	}
	if c.Ingest.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Ingest.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Ingest.HistoryLimit < 1 || c.Ingest.HistoryLimit > 10000 {
		return fmt.Errorf("HISTORY_LIMIT must be between 1 and 10000")
	}
	return nil
}

func (c *Config) validateAlert() error {
	if c.Alert.Threshold <= 0 {
		return fmt.Errorf("ALERT_THRESHOLD must be positive")
	}
	if c.Alert.WebhookTimeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	if c.Alert.WebhookURL == "" {
		return nil
	}
	u, err := url.Parse(c.Alert.WebhookURL)
	if err != nil {
		return fmt.Errorf("ALERT_WEBHOOK failed to parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ALERT_WEBHOOK scheme must be http or https, got: %s", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("ALERT_WEBHOOK host is required")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	for _, proxy := range c.Security.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP address", proxy)
		}
	}
	if c.Security.QueryRateLimitDisabled {
		return nil
	}
	if c.Security.QueryRateLimitRequests < 1 {
		return fmt.Errorf("QUERY_RATE_LIMIT_REQUESTS must be at least 1")
	}
	if c.Security.QueryRateLimitWindow <= 0 {
		return fmt.Errorf("QUERY_RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is not running in production mode.
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}
