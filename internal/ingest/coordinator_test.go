// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/thermalwatch/internal/alerting"
	"github.com/tomtom215/thermalwatch/internal/frame"
	"github.com/tomtom215/thermalwatch/internal/models"
	"github.com/tomtom215/thermalwatch/internal/ratelimit"
)

const testSecret = "s3cret"

type staticGate struct{ secret string }

func (g staticGate) Authorize(credential string) bool {
	return credential != "" && credential == g.secret
}

type memFrames struct {
	mu     sync.Mutex
	frames []models.FrameRecord
	err    error
}

func (m *memFrames) InsertFrame(_ context.Context, filename string, minTemp, maxTemp, meanTemp float64) (*models.FrameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec := models.FrameRecord{
		ID:        int64(len(m.frames) + 1),
		Timestamp: time.Date(2026, 3, 1, 0, 0, len(m.frames), 0, time.UTC),
		Filename:  filename,
		Min:       minTemp,
		Max:       maxTemp,
		Mean:      meanTemp,
	}
	m.frames = append(m.frames, rec)
	return &rec, nil
}

func (m *memFrames) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

type memArtifacts struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	latest string
	err    error
}

func (m *memArtifacts) Put(_ context.Context, filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.blobs == nil {
		m.blobs = make(map[string][]byte)
	}
	m.blobs[filename] = data
	return nil
}

func (m *memArtifacts) SetLatest(_ context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[filename]; !ok {
		return errors.New("artifact not found")
	}
	m.latest = filename
	return nil
}

func (m *memArtifacts) latestName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

type memAlerts struct {
	mu     sync.Mutex
	alerts []models.AlertRecord
}

func (m *memAlerts) InsertAlert(_ context.Context, frameID int64, message string) (*models.AlertRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := models.AlertRecord{ID: int64(len(m.alerts) + 1), FrameID: frameID, Message: message}
	m.alerts = append(m.alerts, rec)
	return &rec, nil
}

type countingBroadcaster struct {
	mu     sync.Mutex
	frames []models.StatusSnapshot
}

func (b *countingBroadcaster) BroadcastFrame(s *models.StatusSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, *s)
}

type fixture struct {
	coord       *Coordinator
	frames      *memFrames
	artifacts   *memArtifacts
	alerts      *memAlerts
	broadcaster *countingBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		frames:      &memFrames{},
		artifacts:   &memArtifacts{},
		alerts:      &memAlerts{},
		broadcaster: &countingBroadcaster{},
	}
	state := NewPipelineState()
	engine := alerting.NewEngine(alerting.EngineConfig{}, f.alerts)
	f.coord = NewCoordinator(Config{}, Deps{
		Gate:        staticGate{secret: testSecret},
		Limiter:     ratelimit.New(ratelimit.Config{Requests: 100, Window: time.Minute}),
		Frames:      f.frames,
		Artifacts:   f.artifacts,
		Alerts:      engine,
		State:       state,
		Broadcaster: f.broadcaster,
	})
	return f
}

// uniformFrame encodes a w*h frame with every sample at celsius.
func uniformFrame(w, h int, celsius float64) string {
	raw := make([]int16, w*h)
	for i := range raw {
		raw[i] = int16(math.Round(celsius * frame.Scale))
	}
	return frame.EncodeRaw(raw)
}

func upload(frameB64 string) *Request {
	return &Request{Credential: testSecret, Source: "10.0.0.1", FrameB64: frameB64}
}

func TestIngest_Success(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	raw := make([]int16, DefaultWidth*DefaultHeight)
	for i := range raw {
		raw[i] = 3000
	}
	raw[0], raw[1] = 2000, 6000

	res, err := f.coord.Ingest(context.Background(), upload(frame.EncodeRaw(raw)))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if res.Stats.Min != 20 || res.Stats.Max != 60 {
		t.Errorf("Stats = %+v, want min 20 max 60", res.Stats)
	}
	if res.Frame.ID != 1 || res.Alert != nil {
		t.Errorf("Result = %+v", res)
	}
	if _, ok := f.artifacts.blobs[res.Frame.Filename]; !ok {
		t.Errorf("artifact %q not stored", res.Frame.Filename)
	}
	if f.artifacts.latestName() != res.Frame.Filename {
		t.Errorf("latest = %q, want %q", f.artifacts.latestName(), res.Frame.Filename)
	}
	if !strings.HasPrefix(res.Frame.Filename, "frame_") || !strings.HasSuffix(res.Frame.Filename, ".jpg") {
		t.Errorf("Filename = %q", res.Frame.Filename)
	}

	status, ok := f.coord.State().Status()
	if !ok {
		t.Fatal("status not set")
	}
	if status.FrameID != res.Frame.ID || status.Mean != res.Stats.Mean || !status.Timestamp.Equal(res.Frame.Timestamp) {
		t.Errorf("Status() = %+v, want frame %+v", status, res.Frame)
	}
	if len(f.broadcaster.frames) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(f.broadcaster.frames))
	}
}

func TestIngest_ExplicitDimensions(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := upload(frame.EncodeRaw([]int16{2000, 6000}))
	req.Width, req.Height = 2, 1

	res, err := f.coord.Ingest(context.Background(), req)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if res.Stats != (frame.Stats{Min: 20, Max: 60, Mean: 40}) {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestIngest_Rejections(t *testing.T) {
	t.Parallel()

	valid := uniformFrame(DefaultWidth, DefaultHeight, 25)

	tests := []struct {
		name      string
		req       *Request
		wantStage Stage
		check     func(error) bool
	}{
		{
			name:      "missing credential",
			req:       &Request{Source: "a", FrameB64: valid},
			wantStage: StageReceived,
			check: func(err error) bool {
				var e *UnauthorizedError
				return errors.As(err, &e) && e.Reason == "missing"
			},
		},
		{
			name:      "wrong credential",
			req:       &Request{Credential: "nope", Source: "a", FrameB64: valid},
			wantStage: StageReceived,
			check: func(err error) bool {
				var e *UnauthorizedError
				return errors.As(err, &e) && e.Reason == "invalid"
			},
		},
		{
			name:      "payload too large",
			req:       upload(strings.Repeat("A", DefaultMaxFrameSize+4)),
			wantStage: StageRateChecked,
			check: func(err error) bool {
				var e *PayloadTooLargeError
				return errors.As(err, &e) && e.Limit == DefaultMaxFrameSize
			},
		},
		{
			name:      "unusable body",
			req:       &Request{Credential: testSecret, Source: "a", BodyErr: &BadRequestError{Message: "no json"}},
			wantStage: StageRateChecked,
			check: func(err error) bool {
				var e *BadRequestError
				return errors.As(err, &e) && e.Message == "no json"
			},
		},
		{
			name:      "malformed base64",
			req:       upload("!!!not-base64!!!"),
			wantStage: StageRateChecked,
			check: func(err error) bool {
				var e *frame.DecodeError
				return errors.As(err, &e)
			},
		},
		{
			name:      "shape mismatch",
			req:       upload(uniformFrame(10, 10, 25)),
			wantStage: StageRateChecked,
			check: func(err error) bool {
				var e *frame.ShapeMismatchError
				return errors.As(err, &e) && e.Got == 100 && e.Expected == DefaultWidth*DefaultHeight
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			_, err := f.coord.Ingest(context.Background(), tt.req)
			if err == nil {
				t.Fatal("Ingest() should fail")
			}
			if !tt.check(err) {
				t.Errorf("Ingest() error = %v (%T)", err, err)
			}
			var stageErr *StageError
			if !errors.As(err, &stageErr) || stageErr.Stage != tt.wantStage {
				t.Errorf("stage = %v, want %v", stageErr, tt.wantStage)
			}
			if f.frames.count() != 0 {
				t.Errorf("frames stored = %d, want 0", f.frames.count())
			}
			if _, ok := f.coord.State().Status(); ok {
				t.Error("status must not change on failure")
			}
		})
	}
}

func TestIngest_RateLimited(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.coord.limiter = ratelimit.New(ratelimit.Config{Requests: 2, Window: time.Hour})
	ctx := context.Background()
	frameB64 := uniformFrame(DefaultWidth, DefaultHeight, 25)

	for i := 0; i < 2; i++ {
		if _, err := f.coord.Ingest(ctx, upload(frameB64)); err != nil {
			t.Fatalf("Ingest() #%d error = %v", i+1, err)
		}
	}

	_, err := f.coord.Ingest(ctx, upload(frameB64))
	var limited *RateLimitedError
	if !errors.As(err, &limited) || limited.Source != "10.0.0.1" {
		t.Fatalf("third Ingest() error = %v, want *RateLimitedError", err)
	}

	other := upload(frameB64)
	other.Source = "10.0.0.2"
	if _, err := f.coord.Ingest(ctx, other); err != nil {
		t.Errorf("other source Ingest() error = %v", err)
	}
}

func TestIngest_UnauthorizedDoesNotConsumeBudget(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.coord.limiter = ratelimit.New(ratelimit.Config{Requests: 1, Window: time.Hour})
	ctx := context.Background()
	frameB64 := uniformFrame(DefaultWidth, DefaultHeight, 25)

	for i := 0; i < 3; i++ {
		bad := upload(frameB64)
		bad.Credential = "wrong"
		_, _ = f.coord.Ingest(ctx, bad)
	}
	if _, err := f.coord.Ingest(ctx, upload(frameB64)); err != nil {
		t.Errorf("Ingest() after rejected credentials error = %v", err)
	}
}

func TestIngest_AlertSequence(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	means := []float64{30, 35, 34.9, 25}
	wantAlert := []bool{false, true, false, true}

	for i, m := range means {
		res, err := f.coord.Ingest(ctx, upload(uniformFrame(DefaultWidth, DefaultHeight, m)))
		if err != nil {
			t.Fatalf("Ingest(%v) error = %v", m, err)
		}
		if (res.Alert != nil) != wantAlert[i] {
			t.Errorf("frame %d mean %v: alert = %v, want %v", i, m, res.Alert != nil, wantAlert[i])
		}
		if res.Alert != nil && res.Alert.FrameID != res.Frame.ID {
			t.Errorf("alert frame = %d, want %d", res.Alert.FrameID, res.Frame.ID)
		}
	}
}

func TestIngest_StoreFailures(t *testing.T) {
	t.Parallel()

	t.Run("artifact", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.artifacts.err = errors.New("disk full")

		_, err := f.coord.Ingest(context.Background(), upload(uniformFrame(DefaultWidth, DefaultHeight, 25)))
		if err == nil {
			t.Fatal("Ingest() should fail")
		}
		if f.frames.count() != 0 {
			t.Error("no frame record may reference a missing artifact")
		}
	})

	t.Run("frame record", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.coord.Ingest(ctx, upload(uniformFrame(DefaultWidth, DefaultHeight, 25)))
		if err != nil {
			t.Fatalf("first Ingest() error = %v", err)
		}

		f.frames.mu.Lock()
		f.frames.err = errors.New("database locked")
		f.frames.mu.Unlock()

		_, err = f.coord.Ingest(ctx, upload(uniformFrame(DefaultWidth, DefaultHeight, 60)))
		var stageErr *StageError
		if !errors.As(err, &stageErr) || stageErr.Stage != StageRendered {
			t.Errorf("error = %v, want failure after rendered", err)
		}
		if got := f.artifacts.latestName(); got != first.Frame.Filename {
			t.Errorf("latest = %q, want %q from the last stored frame", got, first.Frame.Filename)
		}
		mean, _, status, _ := f.coord.State().snapshot()
		if mean != 25 || status.FrameID != first.Frame.ID {
			t.Errorf("baseline %v, status frame %d; want 25, %d", mean, status.FrameID, first.Frame.ID)
		}
	})
}

// gatedEvaluator holds the first evaluation until release is closed.
type gatedEvaluator struct {
	inner    *alerting.Engine
	once     sync.Once
	entered  chan struct{}
	release  chan struct{}
	firstArg chan int64
}

func (g *gatedEvaluator) Evaluate(ctx context.Context, frameID int64, mean float64, baseline alerting.Baseline) (*models.AlertRecord, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		g.firstArg <- frameID
		close(g.entered)
		<-g.release
	}
	return g.inner.Evaluate(ctx, frameID, mean, baseline)
}

func TestIngest_OverlappingUploadsKeepStateConsistent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	gate := &gatedEvaluator{
		inner:    alerting.NewEngine(alerting.EngineConfig{}, f.alerts),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
		firstArg: make(chan int64, 1),
	}
	f.coord.alerts = gate
	ctx := context.Background()

	// Frame A stalls in the alert stage while frame B runs to completion.
	errA := make(chan error, 1)
	go func() {
		_, err := f.coord.Ingest(ctx, upload(uniformFrame(DefaultWidth, DefaultHeight, 20)))
		errA <- err
	}()
	<-gate.entered

	resB, err := f.coord.Ingest(ctx, upload(uniformFrame(DefaultWidth, DefaultHeight, 40)))
	if err != nil {
		t.Fatalf("Ingest(B) error = %v", err)
	}
	if resB.Alert == nil {
		t.Error("B should alert against the baseline A committed")
	}
	close(gate.release)
	if err := <-errA; err != nil {
		t.Fatalf("Ingest(A) error = %v", err)
	}

	mean, hasPrev, status, hasStatus := f.coord.State().snapshot()
	if !hasPrev || !hasStatus {
		t.Fatal("state not committed")
	}
	if mean != status.Mean || status.FrameID != resB.Frame.ID {
		t.Errorf("baseline %v, status %+v; want both from frame %d", mean, status, resB.Frame.ID)
	}
	if id := <-gate.firstArg; id == resB.Frame.ID {
		t.Errorf("stalled frame id = %d, want A", id)
	}
}

func TestIngest_CanceledContextStillPersists(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.coord.Ingest(ctx, upload(uniformFrame(DefaultWidth, DefaultHeight, 25))); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if f.frames.count() != 1 {
		t.Errorf("frames = %d, want 1", f.frames.count())
	}
}

func TestIngest_Concurrent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := upload(uniformFrame(DefaultWidth, DefaultHeight, float64(20+i)))
			req.Source = fmt.Sprintf("10.0.1.%d", i)
			if _, err := f.coord.Ingest(ctx, req); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Ingest() error = %v", err)
	}
	if f.frames.count() != 20 {
		t.Errorf("frames = %d, want 20", f.frames.count())
	}
	mean, _, status, _ := f.coord.State().snapshot()
	if mean != status.Mean {
		t.Errorf("baseline %v does not match status mean %v", mean, status.Mean)
	}
}

func TestFailureReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&UnauthorizedError{Reason: "missing"}, "unauthorized"},
		{&RateLimitedError{}, "rate_limited"},
		{&PayloadTooLargeError{}, "too_large"},
		{&BadRequestError{Message: "no json"}, "bad_request"},
		{&frame.DecodeError{Err: errors.New("x")}, "decode"},
		{&frame.ShapeMismatchError{}, "shape"},
		{errors.New("db"), "persistence"},
	}
	for _, tt := range tests {
		if got := failureReason(tt.err); got != tt.want {
			t.Errorf("failureReason(%T) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
