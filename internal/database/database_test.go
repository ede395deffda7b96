// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/thermalwatch/internal/config"
)

// setupTestDB opens a fresh in-memory store with a stepping clock.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(&config.DatabaseConfig{Path: MemoryPath})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { closeQuietly(db) })

	var mu sync.Mutex
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	db.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		base = base.Add(time.Second)
		return base
	}
	return db
}

func TestConnectionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{"bare path", config.DatabaseConfig{Path: "/data/frames.duckdb"}, "/data/frames.duckdb"},
		{"threads only", config.DatabaseConfig{Path: "f.duckdb", Threads: 2}, "f.duckdb?threads=2"},
		{"both options", config.DatabaseConfig{Path: "f.duckdb", Threads: 4, MaxMemory: "1GB"}, "f.duckdb?threads=4&max_memory=1GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := connectionString(&tt.cfg); got != tt.want {
				t.Errorf("connectionString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInsertFrame_AssignsIncreasingIDs(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	first, err := db.InsertFrame(ctx, "frame_1.jpg", 20, 60, 40)
	if err != nil {
		t.Fatalf("InsertFrame() error = %v", err)
	}
	second, err := db.InsertFrame(ctx, "frame_2.jpg", 21, 61, 41)
	if err != nil {
		t.Fatalf("InsertFrame() error = %v", err)
	}

	if first.ID < 1 {
		t.Errorf("first ID = %d, want >= 1", first.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("second ID %d not greater than first %d", second.ID, first.ID)
	}

	got, err := db.GetFrame(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetFrame() error = %v", err)
	}
	if got.Filename != "frame_2.jpg" || got.Min != 21 || got.Max != 61 || got.Mean != 41 {
		t.Errorf("GetFrame() = %+v", got)
	}
	if !got.Timestamp.Equal(second.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, second.Timestamp)
	}
}

func TestGetFrameArtifactRef(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	rec, err := db.InsertFrame(ctx, "frame_42.jpg", 1, 2, 1.5)
	if err != nil {
		t.Fatalf("InsertFrame() error = %v", err)
	}

	ref, err := db.GetFrameArtifactRef(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetFrameArtifactRef() error = %v", err)
	}
	if ref != "frame_42.jpg" {
		t.Errorf("ref = %q, want frame_42.jpg", ref)
	}

	if _, err := db.GetFrameArtifactRef(ctx, rec.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing frame error = %v, want ErrNotFound", err)
	}
}

func TestListFrames_NewestFirstAndBounded(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := db.InsertFrame(ctx, fmt.Sprintf("frame_%d.jpg", i), 0, 1, float64(i)); err != nil {
			t.Fatalf("InsertFrame(%d) error = %v", i, err)
		}
	}

	frames, err := db.ListFrames(ctx, 4)
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("len = %d, want 4", len(frames))
	}
	if frames[0].Filename != "frame_9.jpg" {
		t.Errorf("first = %q, want frame_9.jpg", frames[0].Filename)
	}
	for i := 1; i < len(frames); i++ {
		if !frames[i-1].Timestamp.After(frames[i].Timestamp) {
			t.Errorf("frames[%d].ts %v not after frames[%d].ts %v", i-1, frames[i-1].Timestamp, i, frames[i].Timestamp)
		}
	}

	all, err := db.ListFrames(ctx, 200)
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if len(all) != 10 {
		t.Errorf("len = %d, want 10", len(all))
	}

	none, err := db.ListFrames(ctx, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("ListFrames(0) = %v, %v; want empty", none, err)
	}
}

func TestListFrames_TiesBrokenByID(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return fixed }

	a, _ := db.InsertFrame(ctx, "a.jpg", 0, 0, 0)
	b, _ := db.InsertFrame(ctx, "b.jpg", 0, 0, 0)

	frames, err := db.ListFrames(ctx, 2)
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if frames[0].ID != b.ID || frames[1].ID != a.ID {
		t.Errorf("order = [%d %d], want [%d %d]", frames[0].ID, frames[1].ID, b.ID, a.ID)
	}
}

func TestInsertAlert(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	frame, err := db.InsertFrame(ctx, "frame.jpg", 20, 60, 40)
	if err != nil {
		t.Fatalf("InsertFrame() error = %v", err)
	}

	alert, err := db.InsertAlert(ctx, frame.ID, "Sudden temp change: +6.00°C (avg now 40.00)")
	if err != nil {
		t.Fatalf("InsertAlert() error = %v", err)
	}
	if alert.ID < 1 || alert.FrameID != frame.ID {
		t.Errorf("InsertAlert() = %+v", alert)
	}

	var refErr *ReferentialError
	if _, err := db.InsertAlert(ctx, frame.ID+999, "orphan"); !errors.As(err, &refErr) {
		t.Errorf("orphan alert error = %v, want *ReferentialError", err)
	}

	alerts, err := db.ListAlerts(ctx, 10)
	if err != nil || len(alerts) != 1 {
		t.Errorf("ListAlerts() = %d alerts, %v; want 1", len(alerts), err)
	}
}

func TestListAlerts_NewestFirstAndBounded(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	frame, err := db.InsertFrame(ctx, "frame.jpg", 20, 60, 40)
	if err != nil {
		t.Fatalf("InsertFrame() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := db.InsertAlert(ctx, frame.ID, fmt.Sprintf("alert %d", i)); err != nil {
			t.Fatalf("InsertAlert(%d) error = %v", i, err)
		}
	}

	alerts, err := db.ListAlerts(ctx, 3)
	if err != nil {
		t.Fatalf("ListAlerts() error = %v", err)
	}
	if len(alerts) != 3 {
		t.Fatalf("len = %d, want 3", len(alerts))
	}
	want := []string{"alert 4", "alert 3", "alert 2"}
	for i, a := range alerts {
		if a.Message != want[i] {
			t.Errorf("alerts[%d] = %q, want %q", i, a.Message, want[i])
		}
	}
}

func TestConcurrentInserts(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := db.InsertFrame(ctx, fmt.Sprintf("c_%d.jpg", i), 0, 1, 0.5); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent InsertFrame() error = %v", err)
	}

	frames, err := db.ListFrames(ctx, 100)
	if err != nil {
		t.Fatalf("ListFrames() error = %v", err)
	}
	if len(frames) != 20 {
		t.Errorf("ListFrames() = %d frames, want 20", len(frames))
	}
	seen := make(map[int64]bool, len(frames))
	for _, f := range frames {
		if seen[f.ID] {
			t.Errorf("duplicate frame id %d", f.ID)
		}
		seen[f.ID] = true
	}
}
