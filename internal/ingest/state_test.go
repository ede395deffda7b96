// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package ingest

import (
	"sync"
	"testing"

	"github.com/tomtom215/thermalwatch/internal/models"
)

// snapshot reads the baseline and the status under one lock.
func (s *PipelineState) snapshot() (float64, bool, models.StatusSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previousMean, s.hasPrevious, s.current, s.hasCurrent
}

func TestPipelineState_Commit(t *testing.T) {
	t.Parallel()
	s := NewPipelineState()

	if _, ok := s.Status(); ok {
		t.Fatal("new state should have no status")
	}
	if _, hasPrev, _, _ := s.snapshot(); hasPrev {
		t.Fatal("new state should have no baseline")
	}

	first := models.StatusSnapshot{FrameID: 1, Min: 20, Max: 40, Mean: 30}
	if prev, ok := s.Commit(first); ok || prev != 0 {
		t.Errorf("first Commit() = %v, %v; want 0, false", prev, ok)
	}

	second := models.StatusSnapshot{FrameID: 2, Min: 25, Max: 45, Mean: 35}
	if prev, ok := s.Commit(second); !ok || prev != 30 {
		t.Errorf("second Commit() = %v, %v; want 30, true", prev, ok)
	}

	got, ok := s.Status()
	if !ok || got != second {
		t.Errorf("Status() = %+v, %v; want %+v", got, ok, second)
	}
	if mean, _, _, _ := s.snapshot(); mean != 35 {
		t.Errorf("baseline = %v, want 35", mean)
	}
}

func TestPipelineState_ConcurrentCommitsStayConsistent(t *testing.T) {
	t.Parallel()
	s := NewPipelineState()

	const n = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[float64]int)
	unset := 0

	stop := make(chan struct{})
	torn := make(chan models.StatusSnapshot, 1)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			mean, hasPrev, status, hasStatus := s.snapshot()
			if hasPrev != hasStatus || mean != status.Mean {
				select {
				case torn <- status:
				default:
				}
				return
			}
		}
	}()

	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			prev, ok := s.Commit(models.StatusSnapshot{FrameID: id, Mean: float64(id)})
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				unset++
				return
			}
			seen[prev]++
		}(int64(i))
	}
	wg.Wait()
	close(stop)

	select {
	case status := <-torn:
		t.Fatalf("baseline and status diverged at frame %d", status.FrameID)
	default:
	}

	// Every value but the last one committed is returned exactly once.
	last, _, status, _ := s.snapshot()
	if last != status.Mean || int64(last) != status.FrameID {
		t.Errorf("final baseline %v does not match status %+v", last, status)
	}
	if unset != 1 {
		t.Errorf("unset baseline observed %d times, want 1", unset)
	}
	if len(seen) != n-1 {
		t.Errorf("distinct previous values = %d, want %d", len(seen), n-1)
	}
	if _, ok := seen[last]; ok {
		t.Errorf("final baseline %v should not have been returned", last)
	}
	for v, count := range seen {
		if count != 1 {
			t.Errorf("value %v returned %d times", v, count)
		}
	}
}

func TestStage_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stage Stage
		want  string
	}{
		{StageReceived, "received"},
		{StageRateChecked, "rate_checked"},
		{StageAlertEvaluated, "alert_evaluated"},
		{StageDone, "done"},
		{StageFailed, "failed"},
		{Stage(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}
