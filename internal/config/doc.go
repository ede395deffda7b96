// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

/*
Package config loads and validates Thermalwatch configuration.

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Defaults from defaultConfig()
 2. Optional YAML file (CONFIG_PATH, or config.yaml in the working directory)
 3. Environment variables (explicit mapping in envTransformFunc)

Environment Variables:

  - THERMAL_API_KEY: shared secret producers must present (default CHANGE_ME)
  - ALERT_WEBHOOK: optional URL receiving alert notifications
  - DATA_DIR: directory holding the DuckDB file and artifact store (default ./data)
  - HTTP_HOST, HTTP_PORT: listen address (default 0.0.0.0:5000)
  - ALERT_THRESHOLD: absolute mean delta, in degrees, that raises an alert (default 5.0)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: ingestion budget per source (default 5 per 1s)
  - MAX_FRAME_B64_SIZE: ceiling on the encoded frame string (default 250000)
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER: zerolog settings

See envTransformFunc for the complete list.
*/
package config
