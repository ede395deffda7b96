// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/tomtom215/thermalwatch/internal/frame"
	"github.com/tomtom215/thermalwatch/internal/heatmap"
	"github.com/tomtom215/thermalwatch/internal/ingest"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// Stable error messages returned to clients.
const (
	msgNoJSON        = "no json"
	msgNoFrame       = "no frame_b64"
	msgBadFrame      = "invalid frame_b64"
	msgTooLarge      = "frame too large"
	msgUnauthorized  = "unauthorized"
	msgRateLimited   = "rate limit exceeded"
	msgRenderFailed  = "render failed"
	msgStorageFailed = "storage failure"
	msgNotFound      = "not_found"
	msgNoImage       = "no_image"
)

// respondIngestError maps an ingest failure to its status code and body.
// Internal error details are logged by the coordinator and never returned.
func (h *Handler) respondIngestError(w http.ResponseWriter, err error) {
	var (
		badRequest   *ingest.BadRequestError
		shape        *frame.ShapeMismatchError
		decodeErr    *frame.DecodeError
		tooLarge     *ingest.PayloadTooLargeError
		unauthorized *ingest.UnauthorizedError
		limited      *ingest.RateLimitedError
		renderErr    *heatmap.RenderError
	)

	switch {
	case errors.As(err, &unauthorized):
		respondError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.As(err, &limited):
		w.Header().Set("Retry-After", strconv.Itoa(h.retryAfterSeconds()))
		respondError(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
	case errors.As(err, &badRequest):
		respondError(w, http.StatusBadRequest, badRequest.Message)
	case errors.As(err, &shape):
		respondJSON(w, http.StatusBadRequest, &models.ShapeMismatchResponse{
			Error:    shape.Error(),
			Got:      shape.Got,
			Expected: shape.Expected,
		})
	case errors.As(err, &decodeErr):
		respondError(w, http.StatusBadRequest, msgBadFrame)
	case errors.As(err, &renderErr):
		respondError(w, http.StatusInternalServerError, msgRenderFailed)
	default:
		respondError(w, http.StatusInternalServerError, msgStorageFailed)
	}
}

// retryAfterSeconds rounds the ingestion window up to whole seconds.
func (h *Handler) retryAfterSeconds() int {
	secs := int(math.Ceil(h.config.Ingest.RateLimitWindow.Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}
