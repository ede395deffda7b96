// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/thermalwatch/internal/artifact"
	"github.com/tomtom215/thermalwatch/internal/database"
	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// Status returns the latest frame snapshot, or {} before the first frame.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, ok := h.coord.State().Status()
	if !ok {
		respondJSON(w, http.StatusOK, struct{}{})
		return
	}
	respondJSON(w, http.StatusOK, &status)
}

// History returns the most recent frame records, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	frames, err := h.records.ListFrames(r.Context(), h.historyLimit())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list frames")
		respondError(w, http.StatusInternalServerError, msgStorageFailed)
		return
	}
	respondJSON(w, http.StatusOK, frames)
}

// Alerts returns the most recent alerts, newest first.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.records.ListAlerts(r.Context(), h.historyLimit())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, msgStorageFailed)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

// Image returns the latest heatmap.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.artifacts.Latest()
	if errors.Is(err, artifact.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNoImage)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to read latest artifact")
		respondError(w, http.StatusInternalServerError, msgStorageFailed)
		return
	}
	respondImage(w, data, "")
}

// Download returns the heatmap of one frame as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}

	filename, err := h.records.GetFrameArtifactRef(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("frame_id", id).Msg("Failed to look up artifact")
		respondError(w, http.StatusInternalServerError, msgStorageFailed)
		return
	}

	data, err := h.artifacts.Get(filename)
	if errors.Is(err, artifact.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("filename", filename).Msg("Failed to read artifact")
		respondError(w, http.StatusInternalServerError, msgStorageFailed)
		return
	}
	respondImage(w, data, filename)
}

// Health reports liveness and database connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.records != nil && h.records.Ping(r.Context()) == nil

	health := models.HealthStatus{
		Status:            "healthy",
		Version:           h.version,
		DatabaseConnected: dbConnected,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}
	if status, ok := h.coord.State().Status(); ok {
		id := status.FrameID
		health.LastFrameID = &id
	}

	code := http.StatusOK
	if !dbConnected {
		health.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, &health)
}
