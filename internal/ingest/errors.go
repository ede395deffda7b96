// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package ingest

import (
	"fmt"
)

// PayloadTooLargeError reports an encoded frame above the size ceiling.
type PayloadTooLargeError struct {
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("frame too large: %d bytes exceeds limit of %d", e.Size, e.Limit)
}

// UnauthorizedError reports a missing or wrong credential.
type UnauthorizedError struct {
	// Reason is "missing" or "invalid".
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized: " + e.Reason + " credential"
}

// RateLimitedError reports a source over its per-window budget.
type RateLimitedError struct {
	Source string
}

func (e *RateLimitedError) Error() string {
	return "rate limit exceeded for " + e.Source
}

// BadRequestError reports an upload body that could not be used.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// StageError records the pipeline stage a failure occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
