// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends {"error": message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &models.ErrorResponse{Error: message})
}

// respondImage sends JPEG bytes. A non-empty attachment name adds a
// Content-Disposition header.
func respondImage(w http.ResponseWriter, data []byte, attachment string) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	if attachment != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write image response")
	}
}

// sourceKey returns the client IP used as the rate-limit key. RemoteAddr is
// the TCP peer unless RealIP rewrote it for a trusted proxy.
func sourceKey(r *http.Request) string {
	return peerIP(r.RemoteAddr)
}
