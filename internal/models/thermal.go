// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package models

import "time"

// FrameRecord is a persisted, immutable record of one accepted frame.
type FrameRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"ts"`
	Filename  string    `json:"filename"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Mean      float64   `json:"mean"`
}

// AlertRecord is a persisted, immutable temperature-swing alert.
type AlertRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"ts"`
	FrameID   int64     `json:"frame_id"`
	Message   string    `json:"message"`
}

// StatusSnapshot describes the most recently accepted frame.
type StatusSnapshot struct {
	Timestamp time.Time `json:"ts"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Mean      float64   `json:"mean"`
	FrameID   int64     `json:"frame_id"`
}

// UploadRequest is the JSON body accepted by the ingestion endpoint.
// Width and Height are optional and default to the configured frame size.
type UploadRequest struct {
	FrameB64 string `json:"frame_b64" validate:"required"`
	Width    *int   `json:"w,omitempty" validate:"omitempty,min=1,max=4096"`
	Height   *int   `json:"h,omitempty" validate:"omitempty,min=1,max=4096"`
}

// UploadResponse is returned for an accepted frame.
type UploadResponse struct {
	Status  string  `json:"status"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	FrameID int64   `json:"frame_id"`
}

// AlertNotification is the outbound webhook payload.
type AlertNotification struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	FrameID int64   `json:"frame_id"`
	Mean    float64 `json:"mean"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ShapeMismatchResponse extends ErrorResponse with sample counts.
type ShapeMismatchResponse struct {
	Error    string `json:"error"`
	Got      int    `json:"got"`
	Expected int    `json:"expected"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	WebSocketClients  int     `json:"websocket_clients"`
	LastFrameID       *int64  `json:"last_frame_id,omitempty"`
	Uptime            float64 `json:"uptime_seconds"`
}
