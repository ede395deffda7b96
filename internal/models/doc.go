// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package models defines the records shared by storage, ingestion and the API.

Key Components:

  - FrameRecord: one accepted frame (stats plus heatmap artifact filename)
  - AlertRecord: one temperature-swing alert, owned by a FrameRecord
  - StatusSnapshot: the most recently accepted frame, served by /status
  - UploadRequest / UploadResponse: ingestion wire format
  - AlertNotification: outbound webhook payload

JSON field names are snake_case throughout.
*/
package models
