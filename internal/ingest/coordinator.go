// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/thermalwatch/internal/alerting"
	"github.com/tomtom215/thermalwatch/internal/artifact"
	"github.com/tomtom215/thermalwatch/internal/frame"
	"github.com/tomtom215/thermalwatch/internal/heatmap"
	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/metrics"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// Defaults for uploads that omit optional fields.
const (
	DefaultWidth        = 80
	DefaultHeight       = 62
	DefaultMaxFrameSize = 250000
)

// Authorizer checks a caller credential.
type Authorizer interface {
	Authorize(credential string) bool
}

// Admitter is a per-source rate limiter.
type Admitter interface {
	Admit(key string) bool
	Sources() int
}

// FrameStore persists frame records.
type FrameStore interface {
	InsertFrame(ctx context.Context, filename string, minTemp, maxTemp, meanTemp float64) (*models.FrameRecord, error)
}

// ArtifactStore persists rendered heatmaps. SetLatest runs only once the
// frame record referencing the artifact has been stored.
type ArtifactStore interface {
	Put(ctx context.Context, filename string, data []byte) error
	SetLatest(ctx context.Context, filename string) error
}

// AlertEvaluator runs the alert check for an accepted frame.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, frameID int64, mean float64, baseline alerting.Baseline) (*models.AlertRecord, error)
}

// FrameBroadcaster announces accepted frames to live viewers.
type FrameBroadcaster interface {
	BroadcastFrame(status *models.StatusSnapshot)
}

// Config bounds uploads.
type Config struct {
	MaxFrameSize  int
	DefaultWidth  int
	DefaultHeight int
}

// Request is one upload. Zero Width or Height selects the default.
//
// BodyErr carries a failure to read or parse the upload body. It is reported
// only after the credential and rate checks pass, so an unauthenticated
// caller learns nothing about body handling.
type Request struct {
	Credential string
	Source     string
	FrameB64   string
	Width      int
	Height     int
	BodyErr    error
}

// Result describes an accepted frame.
type Result struct {
	Frame *models.FrameRecord
	Stats frame.Stats
	Alert *models.AlertRecord
}

// Coordinator runs uploads through the pipeline and owns PipelineState.
type Coordinator struct {
	cfg         Config
	gate        Authorizer
	limiter     Admitter
	frames      FrameStore
	artifacts   ArtifactStore
	alerts      AlertEvaluator
	state       *PipelineState
	broadcaster FrameBroadcaster

	now         func() time.Time
	newFilename func(time.Time) string
}

// Deps are the collaborators of a Coordinator.
type Deps struct {
	Gate        Authorizer
	Limiter     Admitter
	Frames      FrameStore
	Artifacts   ArtifactStore
	Alerts      AlertEvaluator
	State       *PipelineState
	Broadcaster FrameBroadcaster
}

// NewCoordinator creates a coordinator. Broadcaster is optional.
func NewCoordinator(cfg Config, deps Deps) *Coordinator {
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = DefaultMaxFrameSize
	}
	if cfg.DefaultWidth <= 0 {
		cfg.DefaultWidth = DefaultWidth
	}
	if cfg.DefaultHeight <= 0 {
		cfg.DefaultHeight = DefaultHeight
	}
	if deps.State == nil {
		deps.State = NewPipelineState()
	}
	return &Coordinator{
		cfg:         cfg,
		gate:        deps.Gate,
		limiter:     deps.Limiter,
		frames:      deps.Frames,
		artifacts:   deps.Artifacts,
		alerts:      deps.Alerts,
		state:       deps.State,
		broadcaster: deps.Broadcaster,
		now:         time.Now,
		newFilename: artifact.NewFilename,
	}
}

// State returns the pipeline state read by the status endpoint.
func (c *Coordinator) State() *PipelineState {
	return c.state
}

// Ingest runs req through every stage and returns the accepted frame.
func (c *Coordinator) Ingest(ctx context.Context, req *Request) (*Result, error) {
	run := &pipelineRun{stage: StageReceived}
	logger := logging.Ctx(ctx)

	result, err := c.ingest(ctx, req, run)
	if err != nil {
		failed := run.stage
		run.stage = StageFailed
		metrics.RecordIngestFailure(failureReason(err))
		event := logger.Warn()
		if failed >= StageRendered {
			event = logger.Error()
		}
		event.Err(err).Str("stage", failed.String()).Str("source", req.Source).Msg("Frame rejected")
		return nil, &StageError{Stage: failed, Err: err}
	}

	logger.Debug().
		Int64("frame_id", result.Frame.ID).
		Float64("mean", result.Stats.Mean).
		Bool("alert", result.Alert != nil).
		Msg("Frame ingested")
	return result, nil
}

// pipelineRun tracks the stage reached by one request.
type pipelineRun struct {
	stage Stage
	last  time.Time
}

// advance records the time spent reaching next.
func (r *pipelineRun) advance(next Stage) {
	now := time.Now()
	if !r.last.IsZero() {
		metrics.RecordIngestStage(next.String(), now.Sub(r.last))
	}
	r.last = now
	r.stage = next
}

func (c *Coordinator) ingest(ctx context.Context, req *Request, run *pipelineRun) (*Result, error) {
	run.advance(StageReceived)

	if req.Credential == "" {
		metrics.AuthFailures.WithLabelValues("missing").Inc()
		return nil, &UnauthorizedError{Reason: "missing"}
	}
	if !c.gate.Authorize(req.Credential) {
		metrics.AuthFailures.WithLabelValues("invalid").Inc()
		return nil, &UnauthorizedError{Reason: "invalid"}
	}
	run.advance(StageAuthorized)

	admitted := c.limiter.Admit(req.Source)
	metrics.RateLimitSources.Set(float64(c.limiter.Sources()))
	if !admitted {
		metrics.RateLimitedRequests.Inc()
		return nil, &RateLimitedError{Source: req.Source}
	}
	run.advance(StageRateChecked)

	if req.BodyErr != nil {
		return nil, req.BodyErr
	}
	if len(req.FrameB64) > c.cfg.MaxFrameSize {
		return nil, &PayloadTooLargeError{Size: len(req.FrameB64), Limit: c.cfg.MaxFrameSize}
	}
	w, h := req.Width, req.Height
	if w == 0 {
		w = c.cfg.DefaultWidth
	}
	if h == 0 {
		h = c.cfg.DefaultHeight
	}
	grid, err := frame.Decode(req.FrameB64, w, h)
	if err != nil {
		return nil, err
	}
	run.advance(StageDecoded)

	stats := grid.Stats()
	run.advance(StageAnalyzed)

	img, err := heatmap.Render(grid)
	if err != nil {
		return nil, err
	}
	run.advance(StageRendered)

	// Persisted writes complete even if the caller has gone away.
	persistCtx := context.WithoutCancel(ctx)
	filename := c.newFilename(c.now())
	if err := c.artifacts.Put(persistCtx, filename, img); err != nil {
		return nil, err
	}
	rec, err := c.frames.InsertFrame(persistCtx, filename, stats.Min, stats.Max, stats.Mean)
	if err != nil {
		return nil, err
	}
	if err := c.artifacts.SetLatest(persistCtx, filename); err != nil {
		return nil, err
	}
	run.advance(StagePersisted)

	status := models.StatusSnapshot{
		Timestamp: rec.Timestamp,
		Min:       rec.Min,
		Max:       rec.Max,
		Mean:      rec.Mean,
		FrameID:   rec.ID,
	}
	previous, hasPrevious := c.state.Commit(status)
	metrics.RecordFrame(stats.Min, stats.Max, stats.Mean)

	alert, err := c.alerts.Evaluate(persistCtx, rec.ID, stats.Mean, alerting.Baseline{Mean: previous, Set: hasPrevious})
	if err != nil {
		return nil, err
	}
	run.advance(StageAlertEvaluated)

	if c.broadcaster != nil {
		c.broadcaster.BroadcastFrame(&status)
	}
	run.advance(StageDone)

	return &Result{Frame: rec, Stats: stats, Alert: alert}, nil
}

// failureReason maps an error to the ingest failure metric label.
func failureReason(err error) string {
	var (
		unauthorized *UnauthorizedError
		limited      *RateLimitedError
		tooLarge     *PayloadTooLargeError
		badRequest   *BadRequestError
		decodeErr    *frame.DecodeError
		shapeErr     *frame.ShapeMismatchError
		renderErr    *heatmap.RenderError
	)
	switch {
	case errors.As(err, &unauthorized):
		return "unauthorized"
	case errors.As(err, &limited):
		return "rate_limited"
	case errors.As(err, &tooLarge):
		return "too_large"
	case errors.As(err, &badRequest):
		return "bad_request"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &shapeErr):
		return "shape"
	case errors.As(err, &renderErr):
		return "render"
	default:
		return "persistence"
	}
}
