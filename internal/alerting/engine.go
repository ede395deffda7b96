// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package alerting

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/metrics"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// DefaultThreshold is the mean-temperature swing, in degrees, that raises an alert.
const DefaultThreshold = 5.0

// DefaultNotifyTimeout bounds a single background notification.
const DefaultNotifyTimeout = 3 * time.Second

// MessageTypeAlert is the websocket message type for new alerts.
const MessageTypeAlert = "temperature_alert"

// AlertStore persists alert records.
type AlertStore interface {
	InsertAlert(ctx context.Context, frameID int64, message string) (*models.AlertRecord, error)
}

// Baseline is the mean of the previously accepted frame. Set is false for
// the first frame after start.
type Baseline struct {
	Mean float64
	Set  bool
}

// AlertBroadcaster pushes alerts to live viewers.
type AlertBroadcaster interface {
	BroadcastJSON(messageType string, data interface{})
}

// EngineConfig configures the alert engine.
type EngineConfig struct {
	Threshold     float64
	NotifyTimeout time.Duration
}

// Engine evaluates frames against the baseline mean.
type Engine struct {
	store         AlertStore
	threshold     float64
	notifyTimeout time.Duration

	mu          sync.RWMutex
	notifiers   []Notifier
	broadcaster AlertBroadcaster

	pending sync.WaitGroup
}

// NewEngine creates an alert engine.
func NewEngine(cfg EngineConfig, store AlertStore) *Engine {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	return &Engine{
		store:         store,
		threshold:     cfg.Threshold,
		notifyTimeout: cfg.NotifyTimeout,
	}
}

// AddNotifier registers a notifier. Disabled notifiers are skipped at send time.
func (e *Engine) AddNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifiers = append(e.notifiers, n)
}

// SetBroadcaster sets the live-viewer broadcaster.
func (e *Engine) SetBroadcaster(b AlertBroadcaster) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.broadcaster = b
}

// FormatMessage renders the human-readable alert text.
func FormatMessage(delta, mean float64) string {
	return fmt.Sprintf("Sudden temp change: %+.2f°C (avg now %.2f)", delta, mean)
}

// Evaluate compares mean with baseline and, when the swing reaches the
// threshold, persists and dispatches an alert. It returns nil without error
// when no alert fired. The caller owns the baseline and has already advanced
// it to mean.
func (e *Engine) Evaluate(ctx context.Context, frameID int64, mean float64, baseline Baseline) (*models.AlertRecord, error) {
	if !baseline.Set {
		return nil, nil
	}

	delta := mean - baseline.Mean
	if math.Abs(delta) < e.threshold {
		return nil, nil
	}

	message := FormatMessage(delta, mean)
	alert, err := e.store.InsertAlert(ctx, frameID, message)
	if err != nil {
		return nil, fmt.Errorf("record alert for frame %d: %w", frameID, err)
	}

	metrics.AlertsRaised.Inc()
	logging.Ctx(ctx).Warn().
		Int64("frame_id", frameID).
		Float64("delta", delta).
		Float64("mean", mean).
		Msg(message)

	e.dispatch(ctx, alert, mean)
	return alert, nil
}

// dispatch broadcasts to viewers and sends notifications in the background.
func (e *Engine) dispatch(ctx context.Context, alert *models.AlertRecord, mean float64) {
	e.mu.RLock()
	notifiers := make([]Notifier, len(e.notifiers))
	copy(notifiers, e.notifiers)
	broadcaster := e.broadcaster
	e.mu.RUnlock()

	if broadcaster != nil {
		broadcaster.BroadcastJSON(MessageTypeAlert, alert)
	}

	payload := &models.AlertNotification{
		Type:    "alert",
		Message: alert.Message,
		FrameID: alert.FrameID,
		Mean:    mean,
	}

	// Request cancellation must not cut the notification short.
	logger := logging.Ctx(ctx)
	for _, n := range notifiers {
		if !n.Enabled() {
			continue
		}
		e.pending.Add(1)
		go func(n Notifier) {
			defer e.pending.Done()

			sendCtx, cancel := context.WithTimeout(context.Background(), e.notifyTimeout)
			defer cancel()

			if err := n.Send(sendCtx, payload); err != nil {
				nerr := &NotificationError{Notifier: n.Name(), FrameID: payload.FrameID, Err: err}
				logger.Warn().Err(nerr).Str("notifier", n.Name()).Msg("Alert notification failed")
				return
			}
			logger.Debug().Str("notifier", n.Name()).Int64("frame_id", payload.FrameID).Msg("Alert notification sent")
		}(n)
	}
}

// Wait blocks until background notifications finish.
func (e *Engine) Wait() {
	e.pending.Wait()
}
