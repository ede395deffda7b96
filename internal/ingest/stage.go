// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package ingest

// Stage is a step of the ingestion state machine.
type Stage int

// Pipeline stages, in execution order.
const (
	StageReceived Stage = iota
	StageAuthorized
	StageRateChecked
	StageDecoded
	StageAnalyzed
	StageRendered
	StagePersisted
	StageAlertEvaluated
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageReceived:       "received",
	StageAuthorized:     "authorized",
	StageRateChecked:    "rate_checked",
	StageDecoded:        "decoded",
	StageAnalyzed:       "analyzed",
	StageRendered:       "rendered",
	StagePersisted:      "persisted",
	StageAlertEvaluated: "alert_evaluated",
	StageDone:           "done",
	StageFailed:         "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
