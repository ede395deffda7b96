// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package logging provides the process-wide zerolog logger.

Call Init once at startup; until then a JSON logger at info level writes to
stderr. Package-level helpers (Info, Warn, Error, ...) log through the global
logger, Ctx attaches the request and correlation IDs carried by a context, and
NewSlogLogger bridges log/slog users (the supervisor tree) onto the same sink.

Example:

	logging.Init(logging.Config{Level: "debug", Format: "console"})
	logging.Info().Int64("frame_id", id).Float64("mean", mean).Msg("frame accepted")
	logging.Ctx(r.Context()).Warn().Err(err).Msg("webhook delivery failed")
*/
package logging
