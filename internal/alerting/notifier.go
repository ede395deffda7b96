// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package alerting

import (
	"context"
	"fmt"

	"github.com/tomtom215/thermalwatch/internal/models"
)

// Notifier delivers alert notifications to an external system.
type Notifier interface {
	// Name identifies the notifier in logs and metrics.
	Name() string

	// Enabled reports whether the notifier is configured.
	Enabled() bool

	// Send delivers one notification. It must honor ctx cancellation.
	Send(ctx context.Context, n *models.AlertNotification) error
}

// NotificationError is an outbound delivery failure. It is logged and never
// returned to the uploader.
type NotificationError struct {
	Notifier string
	FrameID  int64
	Err      error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification for frame %d: %v", e.Notifier, e.FrameID, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
