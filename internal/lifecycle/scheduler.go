package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/farmsight/farmsight-data/internal/config"
)

// ErrRunInProgress is returned by TriggerNow when another advance run holds
// the guard.
var ErrRunInProgress = errors.New("lifecycle advance already running")

// Scheduler fires one advance run per day at a fixed local wall-clock time
// and exposes a manual trigger sharing the same mutual-exclusion guard, so
// a manual run coinciding with the scheduled one can never double-append
// transition events.
type Scheduler struct {
	deps   *Deps
	hour   int
	minute int
	loc    *time.Location
	logger *slog.Logger

	runMu sync.Mutex // guards the job body

	mu      sync.RWMutex // guards the fields below
	active  bool
	nextRun time.Time
	last    *Result
}

// Status is the scheduler state reported to operators.
type Status struct {
	Active  bool      `json:"active"`
	NextRun time.Time `json:"next_run"`
	LastRun *Result   `json:"last_run,omitempty"`
}

// NewScheduler builds a scheduler from validated config.
func NewScheduler(deps *Deps, cfg *config.Config, logger *slog.Logger) *Scheduler {
	hour, minute, _ := config.ParseClock(cfg.AdvanceAt) // validated at load
	return &Scheduler{
		deps:   deps,
		hour:   hour,
		minute: minute,
		loc:    cfg.Location(),
		logger: logger,
	}
}

// Start runs the daily trigger loop. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.active = true
	s.nextRun = s.nextRunTime(time.Now())
	s.mu.Unlock()

	s.logger.Info("Lifecycle scheduler started",
		"run_at", s.NextRunTime().Format(time.RFC3339), "timezone", s.loc.String())

	for {
		next := s.NextRunTime()
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			// A run in flight (manual trigger) finishes first; the
			// scheduled run waits rather than overlapping.
			s.runMu.Lock()
			result := Advance(ctx, s.deps, time.Now(), s.logger)
			s.runMu.Unlock()

			s.mu.Lock()
			s.last = &result
			s.nextRun = s.nextRunTime(time.Now())
			s.mu.Unlock()

		case <-ctx.Done():
			timer.Stop()
			s.mu.Lock()
			s.active = false
			s.mu.Unlock()
			s.logger.Info("Lifecycle scheduler stopped")
			return
		}
	}
}

// TriggerNow runs the advance job on demand. Returns ErrRunInProgress when
// a scheduled or manual run is already executing.
func (s *Scheduler) TriggerNow(ctx context.Context) (Result, error) {
	if !s.runMu.TryLock() {
		return Result{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	result := Advance(ctx, s.deps, time.Now(), s.logger)

	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()
	return result, nil
}

// Status reports whether the scheduler loop is running, the next scheduled
// run, and the last run's summary.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Active: s.active, NextRun: s.nextRun, LastRun: s.last}
}

// NextRunTime returns the next scheduled fire time.
func (s *Scheduler) NextRunTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRun
}

// nextRunTime computes the next occurrence of the configured wall-clock time
// in the configured zone. Rebuilding the date keeps the wall time stable
// across DST shifts.
func (s *Scheduler) nextRunTime(now time.Time) time.Time {
	local := now.In(s.loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !candidate.After(now) {
		next := local.AddDate(0, 0, 1)
		candidate = time.Date(next.Year(), next.Month(), next.Day(), s.hour, s.minute, 0, 0, s.loc)
	}
	return candidate
}
