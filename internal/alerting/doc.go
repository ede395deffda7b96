// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package alerting detects abrupt swings in mean frame temperature.

Each accepted frame's mean is compared with the previous accepted frame's
mean. When the absolute difference reaches the threshold (5.0 degrees by
default) an alert is persisted and a notification is dispatched to the
configured notifiers. The caller keeps the baseline and advances it to the
latest mean whether or not an alert fires. The first frame after process
start has no baseline and never alerts.

Notifications are best-effort. They run in the background with a bounded
timeout, failures are logged, and they never affect the ingestion response
or the stored alert.
*/
package alerting
