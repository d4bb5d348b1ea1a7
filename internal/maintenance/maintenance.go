// Package maintenance runs periodic background tasks as Go tickers.
// Replaces pg_cron — all scheduled work is driven from Go since the API is
// already a persistent, long-running service (required for LISTEN/NOTIFY).
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PurgeInterval  time.Duration // alert-record retention sweep
	AlertRetention time.Duration // age after which dispatched records go
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		PurgeInterval:  6 * time.Hour,
		AlertRetention: 30 * 24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, pool *pgxpool.Pool, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"purge_interval", cfg.PurgeInterval,
		"alert_retention", cfg.AlertRetention)

	if cfg.PurgeInterval <= 0 {
		<-ctx.Done()
		logger.Info("Maintenance tickers stopped")
		return
	}

	t := time.NewTicker(cfg.PurgeInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			purged, err := PurgeAlertRecords(ctx, pool, cfg.AlertRetention, logger)
			if err != nil {
				logger.Warn("Alert record purge failed", "error", err)
				continue
			}
			if purged > 0 {
				if err := RefreshMaterializedViews(ctx, pool, logger); err != nil {
					logger.Warn("View refresh failed", "error", err)
				}
			}
		case <-ctx.Done():
			logger.Info("Maintenance tickers stopped")
			return
		}
	}
}

// PurgeAlertRecords deletes alert records older than the retention window.
// Old records only serve deduplication of identical signatures, and a
// signature embeds its reading timestamp, so purging aged rows cannot cause
// re-notification — this is housekeeping, not a correctness operation.
func PurgeAlertRecords(ctx context.Context, pool *pgxpool.Pool, retention time.Duration, logger *slog.Logger) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}

	cutoff := fmt.Sprintf("%d hours", int64(retention.Hours()))
	tag, err := pool.Exec(ctx, `
		DELETE FROM alert_records
		WHERE created_at < NOW() - $1::interval`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge alert records: %w", err)
	}
	if tag.RowsAffected() > 0 {
		logger.Info("Purged old alert records", "count", tag.RowsAffected())
	}
	return tag.RowsAffected(), nil
}
