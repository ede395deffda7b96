// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package api exposes the ingestion pipeline and viewer queries over HTTP.

Routes:

	POST /upload           ingest one frame (shared-secret auth, per-source limit)
	GET  /status           latest frame snapshot, {} before the first frame
	GET  /history          most recent frame records, newest first
	GET  /alerts           most recent alerts, newest first
	GET  /image            latest heatmap JPEG
	GET  /download/{id}    heatmap JPEG of one frame, as an attachment
	GET  /health           liveness and storage connectivity
	GET  /metrics          Prometheus metrics
	GET  /ws               live frame and alert feed

Every failed request receives a JSON body with a stable "error" key. Upload
failures map from the ingest error taxonomy:

	400  malformed body, undecodable frame, or shape mismatch (with got/expected)
	401  missing or wrong credential
	413  encoded frame above the size ceiling
	429  per-source rate limit exceeded
	500  render or storage failure

The credential is read from "Authorization: Bearer <secret>" or the
api_key query parameter. The source key for rate limiting is the TCP peer
address. X-Forwarded-For and X-Real-IP are honored only when the peer is
listed in TRUSTED_PROXIES.

Viewer routes are not authenticated. They share a separate, generous
per-IP limiter (go-chi/httprate) so a misbehaving dashboard cannot starve
ingestion.
*/
package api
