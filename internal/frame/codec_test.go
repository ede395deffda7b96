// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package frame

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecode_ScalesByHundred(t *testing.T) {
	t.Parallel()

	grid, err := Decode(EncodeRaw([]int16{2350, -125, 0, 6000}), 2, 2)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []float64{23.50, -1.25, 0, 60}
	for i, v := range grid.Samples() {
		if v != want[i] {
			t.Errorf("sample %d = %v, want %v", i, v, want[i])
		}
	}
	if grid.Width() != 2 || grid.Height() != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", grid.Width(), grid.Height())
	}
	if got := grid.At(1, 0); got != -1.25 {
		t.Errorf("At(1,0) = %v, want -1.25", got)
	}
}

func TestDecode_FullFrame(t *testing.T) {
	t.Parallel()

	raw := make([]int16, 80*62)
	for i := range raw {
		raw[i] = int16((i*37)%8000 - 2000)
	}
	encoded := EncodeRaw(raw)

	grid, err := Decode(encoded, 80, 62)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	for i, v := range grid.Samples() {
		if want := float64(raw[i]) / Scale; v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
	if grid.Len() != 80*62 {
		t.Errorf("Len() = %d, want %d", grid.Len(), 80*62)
	}
}

func TestDecode_ShapeMismatch(t *testing.T) {
	t.Parallel()

	payload := EncodeRaw(make([]int16, 12))

	tests := []struct {
		name     string
		w, h     int
		expected int
		wantErr  bool
	}{
		{"exact match", 4, 3, 12, false},
		{"transposed match", 3, 4, 12, false},
		{"too few declared", 2, 3, 6, true},
		{"too many declared", 80, 62, 4960, true},
		{"zero width", 0, 12, 0, true},
		{"zero height", 12, 0, 0, true},
		{"negative dimension", -4, 3, -12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(payload, tt.w, tt.h)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				return
			}
			var shape *ShapeMismatchError
			if !errors.As(err, &shape) {
				t.Fatalf("Decode() error = %v, want *ShapeMismatchError", err)
			}
			if shape.Got != 12 {
				t.Errorf("Got = %d, want 12", shape.Got)
			}
			if shape.Expected != tt.expected {
				t.Errorf("Expected = %d, want %d", shape.Expected, tt.expected)
			}
		})
	}
}

func TestDecode_MalformedEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"truncated padding", "AAA"},
		{"odd byte count", base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tt.payload, 1, 1)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Decode() error = %v, want *DecodeError", err)
			}
		})
	}
}
