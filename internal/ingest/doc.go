// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package ingest runs one uploaded frame through the ingestion pipeline.

Stages, in order:

	Received -> Authorized -> RateChecked -> Decoded -> Analyzed ->
	Rendered -> Persisted -> AlertEvaluated -> Done

Any stage may fail, which ends the request in the Failed state. Failures
carry the stage they occurred in (StageError) and the underlying typed
error, so the HTTP layer can map them to a status code with errors.As:

	*UnauthorizedError       401
	*RateLimitedError        429
	*PayloadTooLargeError    413
	*BadRequestError         400
	*frame.DecodeError       400
	*frame.ShapeMismatchError 400
	anything else            500

The artifact is written before the frame record, so a stored frame never
references a missing image. The "latest" image pointer moves only after the
frame record is stored. Once the frame is persisted, the status snapshot and
the alert baseline are replaced together under one lock, and the alert
check compares against the baseline that commit displaced.

PipelineState is the process-wide cache of the latest frame. It is not
persisted and starts empty after a restart, so the first frame after a
restart never alerts.
*/
package ingest
