// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/thermalwatch/internal/auth"
	"github.com/tomtom215/thermalwatch/internal/ingest"
	"github.com/tomtom215/thermalwatch/internal/models"
	"github.com/tomtom215/thermalwatch/internal/validation"
)

// bodyOverhead is allowed on top of the frame ceiling for the JSON envelope.
const bodyOverhead = 4096

// Upload ingests one frame.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	req := &ingest.Request{
		Credential: auth.CredentialFromRequest(r),
		Source:     sourceKey(r),
	}

	body, err := h.readUpload(w, r)
	if err != nil {
		req.BodyErr = err
	} else {
		req.FrameB64 = body.FrameB64
		if body.Width != nil {
			req.Width = *body.Width
		}
		if body.Height != nil {
			req.Height = *body.Height
		}
	}

	result, err := h.coord.Ingest(r.Context(), req)
	if err != nil {
		h.respondIngestError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.UploadResponse{
		Status:  "ok",
		Min:     result.Stats.Min,
		Max:     result.Stats.Max,
		Mean:    result.Stats.Mean,
		FrameID: result.Frame.ID,
	})
}

// readUpload reads the capped body, then parses and validates it.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*models.UploadRequest, error) {
	limit := h.config.Ingest.MaxFrameB64Size
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, int64(limit+bodyOverhead)))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &ingest.PayloadTooLargeError{Size: int(maxErr.Limit) + 1, Limit: limit}
		}
		return nil, &ingest.BadRequestError{Message: msgNoJSON}
	}
	return decodeUpload(data)
}

// decodeUpload parses and validates the upload body.
func decodeUpload(data []byte) (*models.UploadRequest, error) {
	var body models.UploadRequest
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &ingest.BadRequestError{Message: msgNoJSON}
	}

	if verr := validation.ValidateStruct(&body); verr != nil {
		if verr.HasFailure("frame_b64", "required") {
			return nil, &ingest.BadRequestError{Message: msgNoFrame}
		}
		return nil, &ingest.BadRequestError{Message: verr.Error()}
	}
	return &body, nil
}
