// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/farmsight/farmsight-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API, lifecycle
// scheduler, and alerting pipeline use. Prepared statements eliminate parse
// overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Lifecycle: plant reads and advance writes
		"list_plants":             "SELECT id, name, planted_date, stages, age_days, status FROM plants WHERE archived = false",
		"update_plant_age":        "UPDATE plants SET age_days = $2, updated_at = NOW() WHERE id = $1",
		"update_plant_age_status": "UPDATE plants SET age_days = $2, status = $3, updated_at = NOW() WHERE id = $1",

		// Lifecycle: transition event log (append-only)
		"insert_plant_event": `
			INSERT INTO plant_events (plant_id, message, previous_stage, new_stage, age_at_transition, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
		"recent_plant_events": `
			SELECT plant_id, message, previous_stage, new_stage, age_at_transition, created_at
			FROM plant_events WHERE plant_id = $1 ORDER BY created_at DESC LIMIT $2`,

		// Alerting: signature-keyed records; the insert is the dedup
		// commit point (create-if-absent)
		"claim_alert_signature": `
			INSERT INTO alert_records (signature, violations, created_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (signature) DO NOTHING`,
		"record_alert_dispatch": `
			UPDATE alert_records SET recipients = $2, sent_at = NOW() WHERE signature = $1`,
		"recent_alerts": `
			SELECT signature, violations, recipients, sent_at, created_at
			FROM alert_records ORDER BY created_at DESC LIMIT $1`,

		// Alerting: recipient directory
		"list_alert_recipients": `
			SELECT name, role, phone FROM users
			WHERE role = ANY($1) AND phone IS NOT NULL AND phone <> ''`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
