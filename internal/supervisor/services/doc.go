// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

// Package services adapts thermalwatch components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete type so
// it can be tested with doubles and never imports the component's package.
package services
