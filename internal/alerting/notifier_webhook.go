// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package alerting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/thermalwatch/internal/logging"
	"github.com/tomtom215/thermalwatch/internal/metrics"
	"github.com/tomtom215/thermalwatch/internal/models"
)

// WebhookConfig configures the webhook notifier.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration

	// BreakerFailures consecutive failures open the circuit.
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

// WebhookNotifier POSTs alert notifications as JSON to a fixed URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[struct{}]
}

// NewWebhookNotifier creates a webhook notifier. An empty URL yields a
// disabled notifier.
func NewWebhookNotifier(cfg WebhookConfig) *WebhookNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultNotifyTimeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	cbName := "alert-webhook"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	failures := cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= failures
			if shouldTrip {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening webhook circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &WebhookNotifier{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
	}
}

// Name returns the notifier name.
func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Enabled returns whether a webhook URL is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

// State returns the circuit breaker state.
func (n *WebhookNotifier) State() gobreaker.State {
	return n.cb.State()
}

// Send delivers a notification to the webhook endpoint.
func (n *WebhookNotifier) Send(ctx context.Context, notification *models.AlertNotification) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	_, err = n.cb.Execute(func() (struct{}, error) {
		return struct{}{}, n.post(ctx, body)
	})

	switch {
	case err == nil:
		metrics.WebhookNotifications.WithLabelValues(n.Name(), "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.WebhookNotifications.WithLabelValues(n.Name(), "rejected").Inc()
	default:
		metrics.WebhookNotifications.WithLabelValues(n.Name(), "failure").Inc()
	}
	return err
}

func (n *WebhookNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
