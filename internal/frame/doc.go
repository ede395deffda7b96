// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package frame decodes thermal sensor frames and derives their summary statistics.

A frame arrives as a base64 string wrapping little-endian int16 samples laid out
row by row. Each sample is a temperature in hundredths of a degree, so a raw
value of 2350 decodes to 23.50. Decode is the only place that scale conversion
happens; everything downstream works with float64 degrees.

Usage:

	grid, err := frame.Decode(body.FrameB64, 80, 62)
	if err != nil {
	    var shape *frame.ShapeMismatchError
	    if errors.As(err, &shape) {
	        // shape.Got, shape.Expected
	    }
	    return err
	}
	stats := grid.Stats()

Grids are immutable once decoded and safe to share between goroutines.
*/
package frame
