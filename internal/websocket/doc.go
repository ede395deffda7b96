// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package websocket pushes live ingestion events to connected viewers.

The Hub owns the set of connected clients and fans out messages from a
buffered broadcast channel. Producers never block: when the channel is full
the message is dropped and counted, and when a single client's send buffer
is full that client is disconnected.

Message types:

	frame_ingested      a frame was accepted (data: models.StatusSnapshot)
	temperature_alert   an alert was recorded (data: models.AlertRecord)
	ping / pong         client keepalive

Messages are JSON objects of the form {"type": "...", "data": ...}.

The hub runs under the supervisor via RunWithContext and closes every
client when its context is canceled.
*/
package websocket
