package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PlantStore is the document-store contract the advancer needs. The pgx
// implementation lives in store.go; tests inject fakes.
type PlantStore interface {
	ListPlants(ctx context.Context) ([]Plant, error)
	UpdateAge(ctx context.Context, id string, ageDays int) error
	UpdateAgeStatus(ctx context.Context, id string, ageDays int, status string) error
}

// EventLog is the append-only transition event sink.
type EventLog interface {
	Append(ctx context.Context, e Event) error
}

// Deps holds the collaborators needed for an advance run.
type Deps struct {
	Plants  PlantStore
	Events  EventLog
	Workers int
}

// Advance runs one lifecycle pass over all plants. Plants are processed
// independently — order across plants is irrelevant — so the pass fans out
// over a bounded worker pool. Per-plant failures are counted and never abort
// the batch; an unreachable plant store aborts early as a whole-run failure.
func Advance(ctx context.Context, deps *Deps, now time.Time, logger *slog.Logger) Result {
	start := time.Now()
	result := Result{RanAt: now.UTC()}

	plants, err := deps.Plants.ListPlants(ctx)
	if err != nil {
		result.Failed = true
		result.Errors = append(result.Errors, fmt.Sprintf("list plants: %s", err))
		result.Duration = time.Since(start)
		result.DurationMS = result.Duration.Milliseconds()
		return result
	}

	result.Total = len(plants)
	if len(plants) == 0 {
		logger.Info("No plants to advance")
		result.Duration = time.Since(start)
		result.DurationMS = result.Duration.Milliseconds()
		return result
	}

	workers := deps.Workers
	if workers < 1 {
		workers = defaultWorkers
	}
	if workers > len(plants) {
		workers = len(plants)
	}

	ch := make(chan Plant, len(plants))
	for _, p := range plants {
		ch <- p
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range ch {
				outcome, transitioned, err := advancePlant(ctx, deps, p, now, logger)

				mu.Lock()
				if err != nil {
					result.Errored++
					result.Errors = append(result.Errors, fmt.Sprintf("plant %s: %s", p.ID, err))
				}
				// A failed event append still counts the plant write.
				if outcome == outcomeUpdated {
					result.Updated++
					if transitioned {
						result.StageChanges++
					}
				} else if err == nil {
					result.Skipped++
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	result.Duration = time.Since(start)
	result.DurationMS = result.Duration.Milliseconds()

	logger.Info("Lifecycle advance complete", "summary", result.Summary())
	return result
}

type plantOutcome int

const (
	outcomeSkipped plantOutcome = iota
	outcomeUpdated
)

// advancePlant applies the per-plant state machine:
//
//	no planted date / future date → skip
//	age unchanged                 → skip (idempotent no-op)
//	age changed, stage same       → update age only
//	age changed, stage different  → update age+status, append one event
func advancePlant(ctx context.Context, deps *Deps, p Plant, now time.Time, logger *slog.Logger) (plantOutcome, bool, error) {
	if p.PlantedDate == nil {
		return outcomeSkipped, false, nil
	}

	currentAge := Age(*p.PlantedDate, now)
	if currentAge < 0 {
		logger.Warn("Plant planted in the future, skipping", "plant_id", p.ID)
		return outcomeSkipped, false, nil
	}
	if currentAge == p.AgeDays {
		return outcomeSkipped, false, nil
	}

	newStatus, err := Resolve(currentAge, p.Stages)
	if err != nil {
		return outcomeSkipped, false, err
	}

	if newStatus == p.Status {
		if err := deps.Plants.UpdateAge(ctx, p.ID, currentAge); err != nil {
			return outcomeSkipped, false, fmt.Errorf("update age: %w", err)
		}
		return outcomeUpdated, false, nil
	}

	if err := deps.Plants.UpdateAgeStatus(ctx, p.ID, currentAge, newStatus); err != nil {
		return outcomeSkipped, false, fmt.Errorf("update age+status: %w", err)
	}

	event := Event{
		PlantID:         p.ID,
		Message:         transitionMessage(p, newStatus, currentAge),
		PreviousStage:   p.Status,
		NewStage:        newStatus,
		AgeAtTransition: currentAge,
		CreatedAt:       now.UTC(),
	}
	if err := deps.Events.Append(ctx, event); err != nil {
		// The plant write already landed; the next run's age-unchanged
		// branch keeps this from turning into a duplicate event.
		return outcomeUpdated, true, fmt.Errorf("append event: %w", err)
	}

	logger.Info("Stage transition",
		"plant_id", p.ID, "from", p.Status, "to", newStatus, "age_days", currentAge)
	return outcomeUpdated, true, nil
}

func transitionMessage(p Plant, newStatus string, age int) string {
	name := p.Name
	if name == "" {
		name = p.ID
	}
	return fmt.Sprintf("%s moved from %s to %s at %d days", name, p.Status, newStatus, age)
}
