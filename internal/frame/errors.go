// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package frame

import "fmt"

// DecodeError reports a frame whose transport encoding could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ShapeMismatchError reports a sample count that does not match the declared
// width and height. Got is the decoded count and Expected is w*h.
type ShapeMismatchError struct {
	Got      int
	Expected int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("size mismatch: got %d samples, expected %d", e.Got, e.Expected)
}
