package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements PlantStore and EventLog against Postgres using the
// prepared statements registered in internal/db. All timestamp and stage
// normalization happens here so the pure functions only ever see clean
// values.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps a pool as the plant store and event log.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// ListPlants returns a snapshot of all tracked plants. Stages are stored as
// a JSONB array ordered by startDuration.
func (s *PGStore) ListPlants(ctx context.Context) ([]Plant, error) {
	rows, err := s.pool.Query(ctx, "list_plants")
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	defer rows.Close()

	var plants []Plant
	for rows.Next() {
		var (
			p         Plant
			name      *string
			planted   *time.Time
			stagesRaw []byte
			status    *string
		)
		if err := rows.Scan(&p.ID, &name, &planted, &stagesRaw, &p.AgeDays, &status); err != nil {
			return nil, fmt.Errorf("scan plant: %w", err)
		}
		if name != nil {
			p.Name = *name
		}
		if status != nil {
			p.Status = *status
		}
		if planted != nil {
			t := planted.UTC()
			p.PlantedDate = &t
		}
		if len(stagesRaw) > 0 {
			if err := json.Unmarshal(stagesRaw, &p.Stages); err != nil {
				return nil, fmt.Errorf("decode stages for plant %s: %w", p.ID, err)
			}
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

// UpdateAge writes a recomputed age without touching the status.
func (s *PGStore) UpdateAge(ctx context.Context, id string, ageDays int) error {
	_, err := s.pool.Exec(ctx, "update_plant_age", id, ageDays)
	return err
}

// UpdateAgeStatus writes a recomputed age together with the new stage label.
func (s *PGStore) UpdateAgeStatus(ctx context.Context, id string, ageDays int, status string) error {
	_, err := s.pool.Exec(ctx, "update_plant_age_status", id, ageDays, status)
	return err
}

// Append inserts one transition event.
func (s *PGStore) Append(ctx context.Context, e Event) error {
	_, err := s.pool.Exec(ctx, "insert_plant_event",
		e.PlantID, e.Message, e.PreviousStage, e.NewStage, e.AgeAtTransition, e.CreatedAt)
	return err
}

// RecentEvents returns the newest transition events for one plant.
func (s *PGStore) RecentEvents(ctx context.Context, plantID string, limit int) ([]Event, error) {
	rows, err := s.pool.Query(ctx, "recent_plant_events", plantID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.PlantID, &e.Message, &e.PreviousStage, &e.NewStage,
			&e.AgeAtTransition, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}
