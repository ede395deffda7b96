// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package ingest

import (
	"sync"

	"github.com/tomtom215/thermalwatch/internal/models"
)

// PipelineState holds the latest accepted frame and the alert baseline.
// All access goes through its methods.
type PipelineState struct {
	mu sync.RWMutex

	previousMean float64
	hasPrevious  bool

	current    models.StatusSnapshot
	hasCurrent bool
}

// NewPipelineState returns an empty state.
func NewPipelineState() *PipelineState {
	return &PipelineState{}
}

// Commit publishes status as the current snapshot and advances the alert
// baseline to its mean in one step. It returns the baseline it replaced; ok
// is false when no frame had been committed yet.
func (s *PipelineState) Commit(status models.StatusSnapshot) (previous float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, ok = s.previousMean, s.hasPrevious
	s.previousMean, s.hasPrevious = status.Mean, true
	s.current, s.hasCurrent = status, true
	return previous, ok
}

// Status returns a copy of the current snapshot; ok is false before the
// first accepted frame.
func (s *PipelineState) Status() (models.StatusSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.hasCurrent
}
