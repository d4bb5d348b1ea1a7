// Command farmctl is the FarmSight operations CLI.
//
// Usage:
//
//	farmctl advance
//	farmctl evaluate --file reading.json
//	farmctl purge-alerts --older-than 720
//	farmctl ranges
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/farmsight/farmsight-data/internal/alerts"
	"github.com/farmsight/farmsight-data/internal/config"
	"github.com/farmsight/farmsight-data/internal/db"
	"github.com/farmsight/farmsight-data/internal/external"
	"github.com/farmsight/farmsight-data/internal/lifecycle"
	"github.com/farmsight/farmsight-data/internal/maintenance"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "farmctl",
		Short: "FarmSight operations CLI",
	}

	root.AddCommand(advanceCmd())
	root.AddCommand(evaluateCmd())
	root.AddCommand(purgeAlertsCmd())
	root.AddCommand(rangesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// advance command
// --------------------------------------------------------------------------

func advanceCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Run one plant lifecycle advance batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := lifecycle.NewPGStore(pool.Pool)
				deps := &lifecycle.Deps{Plants: store, Events: store, Workers: workers}

				result := lifecycle.Advance(ctx, deps, time.Now(), logger)
				logger.Info("Advance finished", "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("advance error", "error", e)
				}
				if result.Failed {
					return fmt.Errorf("advance run failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent plant workers")
	return cmd
}

// --------------------------------------------------------------------------
// evaluate command
// --------------------------------------------------------------------------

func evaluateCmd() *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run a sensor reading through the alert pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read reading file: %w", err)
			}

			var reading struct {
				Parameters map[string]interface{} `json:"parameters"`
				Timestamp  *time.Time             `json:"timestamp"`
			}
			if err := json.Unmarshal(raw, &reading); err != nil {
				return fmt.Errorf("parse reading file: %w", err)
			}
			ts := time.Now().UTC()
			if reading.Timestamp != nil {
				ts = reading.Timestamp.UTC()
			}

			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				store := alerts.NewPGStore(pool.Pool, cfg.AlertRoles)
				deps := &alerts.Deps{
					Ranges:      cfg.Ranges,
					Dedup:       alerts.NewDeduper(store, logger),
					Recipients:  store,
					SendTimeout: cfg.SendTimeout,
				}
				if !dryRun {
					if s := external.NewSMSSender(cfg.SMSBaseURL, cfg.SMSAccountID, cfg.SMSAuthToken, cfg.SMSFromNumber); s.IsConfigured() {
						deps.Sender = s
					}
				}

				result, err := alerts.Run(ctx, deps, alerts.Reading{Parameters: reading.Parameters, Timestamp: ts}, logger)
				if err != nil {
					return err
				}

				out, _ := json.MarshalIndent(result, "", "  ")
				fmt.Println(string(out))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON reading file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate and dedup without sending SMS")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// purge-alerts command
// --------------------------------------------------------------------------

func purgeAlertsCmd() *cobra.Command {
	var olderThanHours int
	cmd := &cobra.Command{
		Use:   "purge-alerts",
		Short: "Delete alert records older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				retention := cfg.AlertRetention
				if olderThanHours > 0 {
					retention = time.Duration(olderThanHours) * time.Hour
				}
				purged, err := maintenance.PurgeAlertRecords(ctx, pool.Pool, retention, logger)
				if err != nil {
					return err
				}
				logger.Info("Purge finished", "purged", purged, "retention", retention)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&olderThanHours, "older-than", 0, "Retention window in hours (default: config)")
	return cmd
}

// --------------------------------------------------------------------------
// ranges command
// --------------------------------------------------------------------------

func rangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ranges",
		Short: "Print the effective parameter range table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(cfg.Ranges, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// withPool loads config, opens a pool, runs fn, and closes the pool.
func withPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
