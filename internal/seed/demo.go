package seed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmsight/farmsight-data/internal/config"
	"github.com/farmsight/farmsight-data/internal/lifecycle"
)

// demoPlant is one reference crop with its stage schedule.
type demoPlant struct {
	ID          string
	Name        string
	DaysPlanted int // planted this many days before the seed run
	Stages      []lifecycle.Stage
}

// demoUser is one alert recipient.
type demoUser struct {
	ID    string
	Name  string
	Role  string
	Phone string
}

var demoPlants = []demoPlant{
	{
		ID: "demo-tomato-a", Name: "Tomato (greenhouse A)", DaysPlanted: 12,
		Stages: []lifecycle.Stage{
			{Label: "Seedling", StartDuration: 0, EndDuration: 13},
			{Label: "Vegetative", StartDuration: 14, EndDuration: 39},
			{Label: "Flowering", StartDuration: 40, EndDuration: 69},
			{Label: "Fruiting", StartDuration: 70, EndDuration: 109},
			{Label: "Harvest", StartDuration: 110, EndDuration: 130},
		},
	},
	{
		ID: "demo-maize-1", Name: "Maize (field 1)", DaysPlanted: 45,
		Stages: []lifecycle.Stage{
			{Label: "Emergence", StartDuration: 0, EndDuration: 9},
			{Label: "Vegetative", StartDuration: 10, EndDuration: 59},
			{Label: "Tasseling", StartDuration: 60, EndDuration: 74},
			{Label: "Grain Fill", StartDuration: 75, EndDuration: 104},
			{Label: "Maturity", StartDuration: 105, EndDuration: 125},
		},
	},
	{
		ID: "demo-kale-b", Name: "Kale (plot B)", DaysPlanted: 3,
		Stages: []lifecycle.Stage{
			{Label: "Seedling", StartDuration: 0, EndDuration: 20},
			{Label: "Leaf Development", StartDuration: 21, EndDuration: 49},
			{Label: "Harvest", StartDuration: 50, EndDuration: 90},
		},
	},
}

var demoUsers = []demoUser{
	{ID: "demo-owner", Name: "Amina Odhiambo", Role: "owner", Phone: "+254700000001"},
	{ID: "demo-manager", Name: "Joseph Kariuki", Role: "manager", Phone: "+254700000002"},
	{ID: "demo-agronomist", Name: "Grace Wanjiru", Role: "agronomist", Phone: "+254700000003"},
	{ID: "demo-viewer", Name: "Viewer Account", Role: "viewer", Phone: ""},
}

// Run upserts the demo plants and users. Re-running is safe: rows are keyed
// on stable IDs and updated in place.
func Run(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) Result {
	var result Result

	logger.Info("Seeding demo plants...")
	now := time.Now().UTC()
	for _, p := range demoPlants {
		if err := upsertPlant(ctx, pool, p, now); err != nil {
			result.AddErrorf("upsert plant %s: %v", p.ID, err)
		} else {
			result.PlantsUpserted++
		}
	}
	logger.Info("Demo plants done", "count", result.PlantsUpserted)

	logger.Info("Seeding demo users...")
	for _, u := range demoUsers {
		if err := upsertUser(ctx, pool, u); err != nil {
			result.AddErrorf("upsert user %s: %v", u.ID, err)
		} else {
			result.UsersUpserted++
		}
	}
	logger.Info("Demo users done", "count", result.UsersUpserted)

	logger.Info("Seed complete", "summary", result.Summary())
	return result
}

// upsertPlant writes one reference plant. Age and status are left at their
// initial values; the lifecycle advance batch recomputes both.
func upsertPlant(ctx context.Context, pool *pgxpool.Pool, p demoPlant, now time.Time) error {
	stages, err := json.Marshal(p.Stages)
	if err != nil {
		return err
	}
	planted := now.AddDate(0, 0, -p.DaysPlanted)

	_, err = pool.Exec(ctx, `
		INSERT INTO `+config.PlantsTable+` (
			id, name, planted_date, stages, age_days, status, archived
		) VALUES ($1, $2, $3, $4, 0, $5, false)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			planted_date = EXCLUDED.planted_date,
			stages = EXCLUDED.stages,
			archived = false,
			updated_at = NOW()`,
		p.ID, p.Name, planted, stages, p.Stages[0].Label,
	)
	return err
}

// upsertUser writes one alert recipient.
func upsertUser(ctx context.Context, pool *pgxpool.Pool, u demoUser) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO `+config.UsersTable+` (id, name, role, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			phone = EXCLUDED.phone,
			updated_at = NOW()`,
		u.ID, u.Name, u.Role, u.Phone,
	)
	return err
}
