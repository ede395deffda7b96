// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package frame

import "testing"

func TestGrid_Stats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []int16
		w, h int
		want Stats
	}{
		{"two samples", []int16{2000, 6000}, 2, 1, Stats{Min: 20, Max: 60, Mean: 40}},
		{"single sample", []int16{-550}, 1, 1, Stats{Min: -5.5, Max: -5.5, Mean: -5.5}},
		{"uniform grid", []int16{3125, 3125, 3125, 3125}, 2, 2, Stats{Min: 31.25, Max: 31.25, Mean: 31.25}},
		{"mixed signs", []int16{-1000, 0, 1000, 2000}, 4, 1, Stats{Min: -10, Max: 20, Mean: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			grid, err := Decode(EncodeRaw(tt.raw), tt.w, tt.h)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := grid.Stats(); got != tt.want {
				t.Errorf("Stats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
