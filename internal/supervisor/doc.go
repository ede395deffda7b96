// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package supervisor runs the long-lived components of thermalwatch under a
Suture supervisor tree.

The tree has two layers, each a child supervisor of the root:

	thermalwatch
	├── messaging-layer   WebSocket hub
	└── api-layer         HTTP server

A service that returns an error (or panics) is restarted by its layer with
exponential backoff. Failures are isolated per layer: a hub crash never
restarts the HTTP server.

Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
