// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package ratelimit implements the per-source fixed-window limiter that guards
// frame ingestion.
//
// Each source key owns one window: a start time and the number of calls seen
// since then. A call arriving more than Window after the start opens a fresh
// window and is admitted; otherwise the count is incremented and the call is
// admitted while the count stays at or below Requests.
//
// The window is fixed, not sliding, so a producer can land up to 2*Requests
// calls across a window boundary. Windows are never evicted; a long-running
// process with many distinct sources grows the map for its lifetime.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults for ingestion.
const (
	DefaultRequests = 5
	DefaultWindow   = time.Second
)

// Config controls the limiter bounds.
type Config struct {
	// Requests is the number of admitted calls per window (K).
	Requests int

	// Window is the length of one fixed window.
	Window time.Duration
}

// window tracks one source key.
type window struct {
	start time.Time
	count int
}

// Limiter is a concurrency-safe fixed-window limiter keyed by source.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	requests int
	length   time.Duration
	now      func() time.Time
}

// New creates a Limiter. Zero values fall back to DefaultRequests and
// DefaultWindow.
func New(cfg Config) *Limiter {
	if cfg.Requests <= 0 {
		cfg.Requests = DefaultRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Limiter{
		windows:  make(map[string]*window),
		requests: cfg.Requests,
		length:   cfg.Window,
		now:      time.Now,
	}
}

// Admit records a call for key and reports whether it is within budget.
func (l *Limiter) Admit(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		// Lazily created windows start out expired.
		w = &window{}
		l.windows[key] = w
	}

	if w.start.IsZero() || now.Sub(w.start) > l.length {
		w.start = now
		w.count = 1
		return true
	}

	w.count++
	return w.count <= l.requests
}

// Sources returns the number of tracked source keys.
func (l *Limiter) Sources() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
