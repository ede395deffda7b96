// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package artifact

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/tomtom215/thermalwatch/internal/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(&config.ArtifactConfig{InMemory: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := Open(&config.ArtifactConfig{Path: dir, SyncWrites: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Put(context.Background(), "frame_1_aaaaaaaa.jpg", []byte{0xff, 0xd8}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(&config.ArtifactConfig{Path: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get("frame_1_aaaaaaaa.jpg")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if !bytes.Equal(got, []byte{0xff, 0xd8}) {
		t.Errorf("Get() = %x", got)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(&config.ArtifactConfig{}); err == nil {
		t.Error("Open() with empty path should fail")
	}
}

func TestPutGet(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	data := []byte("jpeg-bytes")
	if err := s.Put(ctx, "frame_10_deadbeef.jpg", data); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get("frame_10_deadbeef.jpg")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get() = %q, want %q", got, data)
	}

	if _, err := s.Get("frame_11_missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLatest(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest() on empty store error = %v, want ErrNotFound", err)
	}

	for _, a := range []struct{ name, data string }{{"a.jpg", "first"}, {"b.jpg", "second"}} {
		if err := s.Put(ctx, a.name, []byte(a.data)); err != nil {
			t.Fatalf("Put(%s) error = %v", a.name, err)
		}
		if err := s.SetLatest(ctx, a.name); err != nil {
			t.Fatalf("SetLatest(%s) error = %v", a.name, err)
		}
	}

	name, data, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if name != "b.jpg" || string(data) != "second" {
		t.Errorf("Latest() = %q, %q; want b.jpg, second", name, data)
	}

	// Older artifacts stay addressable.
	if got, err := s.Get("a.jpg"); err != nil || string(got) != "first" {
		t.Errorf("Get(a.jpg) = %q, %v", got, err)
	}
}

func TestPut_DoesNotMoveLatest(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "kept.jpg", []byte("kept")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.SetLatest(ctx, "kept.jpg"); err != nil {
		t.Fatalf("SetLatest() error = %v", err)
	}

	// An artifact whose record was never committed stays out of Latest.
	if err := s.Put(ctx, "orphan.jpg", []byte("orphan")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	name, data, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if name != "kept.jpg" || string(data) != "kept" {
		t.Errorf("Latest() = %q, %q; want kept.jpg, kept", name, data)
	}

	if err := s.SetLatest(ctx, "missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetLatest(missing) error = %v, want ErrNotFound", err)
	}
	if name, _, _ := s.Latest(); name != "kept.jpg" {
		t.Errorf("Latest() after failed SetLatest = %q, want kept.jpg", name)
	}
}

func TestPut_Validation(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	if err := s.Put(context.Background(), "", []byte("x")); err == nil {
		t.Error("Put() with empty filename should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Put(ctx, "c.jpg", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() with canceled context error = %v", err)
	}
}

func TestNewFilename(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1767225600, 0)
	pattern := regexp.MustCompile(`^frame_1767225600_[0-9a-f]{8}\.jpg$`)

	a := NewFilename(ts)
	b := NewFilename(ts)
	if !pattern.MatchString(a) {
		t.Errorf("NewFilename() = %q, does not match %s", a, pattern)
	}
	if a == b {
		t.Errorf("NewFilename() returned duplicate %q", a)
	}
}
