// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package frame

// Stats holds the summary statistics of one grid.
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Stats computes min, max and mean over every sample. Decode guarantees the
// grid is non-empty, so there is no error path.
func (g *Grid) Stats() Stats {
	lo, hi := g.samples[0], g.samples[0]
	var sum float64
	for _, v := range g.samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
	}
	return Stats{Min: lo, Max: hi, Mean: sum / float64(len(g.samples))}
}
