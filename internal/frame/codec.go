// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package frame

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
)

// Scale is the fixed-point divisor applied to raw samples.
const Scale = 100.0

// bytesPerSample is the width of one little-endian int16 sample.
const bytesPerSample = 2

var errOddLength = errors.New("payload length is not a multiple of 2 bytes")

// Grid is a decoded temperature frame in degrees, stored row-major.
type Grid struct {
	width   int
	height  int
	samples []float64
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of samples (width*height).
func (g *Grid) Len() int { return len(g.samples) }

// At returns the temperature at column x, row y.
func (g *Grid) At(x, y int) float64 {
	return g.samples[y*g.width+x]
}

// Samples returns a copy of the row-major samples.
func (g *Grid) Samples() []float64 {
	out := make([]float64, len(g.samples))
	copy(out, g.samples)
	return out
}

// Decode turns a base64 payload into a Grid of w*h samples.
//
// Malformed base64 (or a byte count that cannot hold whole int16 samples)
// yields *DecodeError. A sample count other than w*h, including any
// non-positive dimension, yields *ShapeMismatchError.
func Decode(encoded string, w, h int) (*Grid, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(raw)%bytesPerSample != 0 {
		return nil, &DecodeError{Err: errOddLength}
	}

	count := len(raw) / bytesPerSample
	expected := w * h
	if w < 1 || h < 1 || count != expected {
		return nil, &ShapeMismatchError{Got: count, Expected: expected}
	}

	samples := make([]float64, count)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample:]))
		samples[i] = float64(v) / Scale
	}

	return &Grid{width: w, height: h, samples: samples}, nil
}

// EncodeRaw encodes raw fixed-point samples (hundredths of a degree) into the
// base64 transport form that Decode accepts.
func EncodeRaw(raw []int16) string {
	buf := make([]byte, len(raw)*bytesPerSample)
	for i, v := range raw {
		binary.LittleEndian.PutUint16(buf[i*bytesPerSample:], uint16(v))
	}
	return base64.StdEncoding.EncodeToString(buf)
}
