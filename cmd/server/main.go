// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package main is the entry point for the thermalwatch server.
//
// Thermalwatch accepts thermal frames from networked sensors, renders each
// one as a heatmap, stores the frame statistics in DuckDB and the heatmap in
// Badger, and raises an alert whenever the mean temperature swings by at
// least the configured threshold between consecutive frames.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog, JSON or console
//  3. Storage: DuckDB frame/alert records, Badger heatmap artifacts
//  4. Alerting: threshold engine and optional webhook notifier
//  5. Supervisor tree: WebSocket hub, HTTP server
//
// # Configuration
//
// The most common settings:
//
//	THERMAL_API_KEY   shared secret required by POST /upload (default CHANGE_ME)
//	HTTP_PORT         listen port (default 5000)
//	DATA_DIR          root for frames.duckdb and artifacts/ (default ./data)
//	ALERT_THRESHOLD   mean swing in °C that raises an alert (default 5.0)
//	ALERT_WEBHOOK     URL that receives alert notifications (optional)
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree. The HTTP server drains
// in-flight requests, pending webhook deliveries are awaited, and the stores
// are closed.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/thermalwatch/internal/alerting"
	"github.com/tomtom215/thermalwatch/internal/api"
	"github.com/tomtom215/thermalwatch/internal/artifact"
	"github.com/tomtom215/thermalwatch/internal/auth"
	"github.com/tomtom215/thermalwatch/internal/config"
	"github.com/tomtom215/thermalwatch/internal/database"
	"github.com/tomtom215/thermalwatch/internal/ingest"
	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/ratelimit"
	"github.com/tomtom215/thermalwatch/internal/supervisor"
	"github.com/tomtom215/thermalwatch/internal/supervisor/services"
	ws "github.com/tomtom215/thermalwatch/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Thermalwatch stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("artifact_path", cfg.Artifacts.Path).
		Msg("Starting thermalwatch")

	if cfg.Auth.APIKey == config.DefaultAPIKey {
		logging.Warn().Msg("THERMAL_API_KEY is the development placeholder; set a real secret before exposing /upload")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	store, err := artifact.Open(&cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("open artifact store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing artifact store")
		}
	}()

	gate, err := auth.NewGate(cfg.Auth.APIKey)
	if err != nil {
		return fmt.Errorf("create access gate: %w", err)
	}

	wsHub := ws.NewHub()
	state := ingest.NewPipelineState()

	engine := alerting.NewEngine(alerting.EngineConfig{
		Threshold:     cfg.Alert.Threshold,
		NotifyTimeout: cfg.Alert.WebhookTimeout,
	}, db)
	engine.SetBroadcaster(wsHub)
	if cfg.WebhookEnabled() {
		engine.AddNotifier(alerting.NewWebhookNotifier(alerting.WebhookConfig{
			URL:             cfg.Alert.WebhookURL,
			Timeout:         cfg.Alert.WebhookTimeout,
			BreakerFailures: cfg.Alert.BreakerFailures,
			BreakerTimeout:  cfg.Alert.BreakerTimeout,
		}))
		logging.Info().Str("url", cfg.Alert.WebhookURL).Msg("Alert webhook notifier registered")
	}
	defer engine.Wait()

	coord := ingest.NewCoordinator(ingest.Config{
		MaxFrameSize:  cfg.Ingest.MaxFrameB64Size,
		DefaultWidth:  cfg.Ingest.DefaultWidth,
		DefaultHeight: cfg.Ingest.DefaultHeight,
	}, ingest.Deps{
		Gate: gate,
		Limiter: ratelimit.New(ratelimit.Config{
			Requests: cfg.Ingest.RateLimitRequests,
			Window:   cfg.Ingest.RateLimitWindow,
		}),
		Frames:      db,
		Artifacts:   store,
		Alerts:      engine,
		State:       state,
		Broadcaster: wsHub,
	})

	handler := api.NewHandler(cfg, coord, db, store, wsHub, version)
	router := api.NewRouter(handler, &cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}
