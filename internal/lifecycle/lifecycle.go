// Package lifecycle advances tracked plants through their growth stages.
//
// Pipeline: daily trigger → read all plants → recompute age → resolve stage →
// write changes → append transition events. A run is idempotent: re-running
// with the same clock only hits the age-unchanged branch.
package lifecycle

import (
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	defaultWorkers = 4
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Stage is one interval of a plant's growth plan. Bounds are inclusive
// day counts from planting.
type Stage struct {
	Label         string `json:"label"`
	StartDuration int    `json:"startDuration"`
	EndDuration   int    `json:"endDuration"`
}

// Plant is the slice of a plant record this package reads and writes.
// Stages are assigned at planting and immutable afterwards; only AgeDays
// and Status are mutated here.
type Plant struct {
	ID          string
	Name        string
	PlantedDate *time.Time
	Stages      []Stage
	AgeDays     int
	Status      string
}

// Event records one observed stage transition. Append-only.
type Event struct {
	PlantID         string    `json:"plant_id"`
	Message         string    `json:"message"`
	PreviousStage   string    `json:"previous_stage"`
	NewStage        string    `json:"new_stage"`
	AgeAtTransition int       `json:"age_at_transition"`
	CreatedAt       time.Time `json:"created_at"`
}

// Result tracks the outcome of a full advance run.
type Result struct {
	Total        int           `json:"total"`
	Updated      int           `json:"updated"`
	StageChanges int           `json:"stage_changes"`
	Skipped      int           `json:"skipped"`
	Errored      int           `json:"errors"`
	Failed       bool          `json:"failed"` // whole-run failure (plant store unreachable)
	Errors       []string      `json:"error_messages,omitempty"`
	Duration     time.Duration `json:"-"`
	DurationMS   int64         `json:"duration_ms"`
	RanAt        time.Time     `json:"ran_at"`
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	status := "ok"
	if r.Failed {
		status = "FAILED"
	}
	return fmt.Sprintf(
		"total=%d updated=%d stage_changes=%d skipped=%d errors=%d status=%s dur=%s",
		r.Total, r.Updated, r.StageChanges, r.Skipped, r.Errored, status,
		r.Duration.Round(time.Millisecond))
}
