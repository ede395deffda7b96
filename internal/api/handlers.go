// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/thermalwatch/internal/config"
	"github.com/tomtom215/thermalwatch/internal/ingest"
	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/models"
	ws "github.com/tomtom215/thermalwatch/internal/websocket"
)

// RecordStore is the read side of the persistence store.
type RecordStore interface {
	ListFrames(ctx context.Context, limit int) ([]models.FrameRecord, error)
	ListAlerts(ctx context.Context, limit int) ([]models.AlertRecord, error)
	GetFrameArtifactRef(ctx context.Context, id int64) (string, error)
	Ping(ctx context.Context) error
}

// ArtifactReader reads stored heatmaps.
type ArtifactReader interface {
	Get(filename string) ([]byte, error)
	Latest() (string, []byte, error)
}

// Handler serves every route.
type Handler struct {
	config    *config.Config
	coord     *ingest.Coordinator
	records   RecordStore
	artifacts ArtifactReader
	wsHub     *ws.Hub
	version   string
	startTime time.Time
}

// NewHandler creates a Handler. wsHub may be nil, which disables /ws.
func NewHandler(cfg *config.Config, coord *ingest.Coordinator, records RecordStore, artifacts ArtifactReader, wsHub *ws.Hub, version string) *Handler {
	return &Handler{
		config:    cfg,
		coord:     coord,
		records:   records,
		artifacts: artifacts,
		wsHub:     wsHub,
		version:   version,
		startTime: time.Now(),
	}
}

// historyLimit is the bound for list endpoints.
func (h *Handler) historyLimit() int {
	if h.config.Ingest.HistoryLimit > 0 {
		return h.config.Ingest.HistoryLimit
	}
	return 200
}

// getUpgrader creates a WebSocket upgrader with origin checking and timeouts.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts non-browser clients (no Origin header) and
// browsers whose origin is allowed by the CORS configuration.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and registers a live viewer.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
