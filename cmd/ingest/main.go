// Command ingest is the FarmSight data ingestion CLI.
//
// Usage:
//
//	farmsight-ingest seed demo
//	farmsight-ingest reading --file reading.json
//	farmsight-ingest reading --sensor soil-01 --set nitrogen=12.5 --set ph=6.1
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/farmsight/farmsight-data/internal/config"
	"github.com/farmsight/farmsight-data/internal/db"
	"github.com/farmsight/farmsight-data/internal/seed"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "farmsight-ingest",
		Short: "FarmSight data ingestion CLI",
	}

	root.AddCommand(seedCmd())
	root.AddCommand(readingCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed reference data",
	}
	cmd.AddCommand(seedDemoCmd())
	return cmd
}

func seedDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed demo plants and alert recipients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				result := seed.Run(ctx, pool.Pool, logger)
				logger.Info("Demo seed finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("seed error", "error", e)
				}
				if len(result.Errors) > 0 {
					return fmt.Errorf("%d seed errors", len(result.Errors))
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// reading command
// --------------------------------------------------------------------------

// readingPayload is what gets stored and published on the sensor_reading
// channel. Field names match the listener's wire format.
type readingPayload struct {
	SensorID   string                 `json:"sensor_id"`
	Parameters map[string]interface{} `json:"parameters"`
	Timestamp  int64                  `json:"ts"`
}

func readingCmd() *cobra.Command {
	var (
		file     string
		sensorID string
		sets     []string
	)
	cmd := &cobra.Command{
		Use:   "reading",
		Short: "Ingest one sensor reading (stores it and notifies the alert listener)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := buildPayload(file, sensorID, sets)
			if err != nil {
				return err
			}
			return runIngest(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				return ingestReading(ctx, pool, payload)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with sensor_id, parameters, and optional ts")
	cmd.Flags().StringVar(&sensorID, "sensor", "manual", "Sensor identifier when building a reading from --set flags")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Parameter as name=value (repeatable)")
	return cmd
}

// buildPayload assembles the reading from either --file or --set flags.
func buildPayload(file, sensorID string, sets []string) (readingPayload, error) {
	var payload readingPayload

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return payload, fmt.Errorf("read %s: %w", file, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return payload, fmt.Errorf("parse %s: %w", file, err)
		}
	} else {
		payload.SensorID = sensorID
		payload.Parameters = make(map[string]interface{}, len(sets))
		for _, s := range sets {
			name, raw, ok := strings.Cut(s, "=")
			if !ok {
				return payload, fmt.Errorf("bad --set %q, want name=value", s)
			}
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return payload, fmt.Errorf("bad --set %q: %w", s, err)
			}
			payload.Parameters[name] = value
		}
	}

	if len(payload.Parameters) == 0 {
		return payload, fmt.Errorf("reading has no parameters")
	}
	if payload.Timestamp == 0 {
		payload.Timestamp = time.Now().Unix()
	}
	return payload, nil
}

// ingestReading stores the reading row and fires pg_notify so the running
// API's listener evaluates it against the threshold table.
func ingestReading(ctx context.Context, pool *db.Pool, payload readingPayload) error {
	params, err := json.Marshal(payload.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	recordedAt := time.Unix(payload.Timestamp, 0).UTC()

	_, err = pool.Exec(ctx, `
		INSERT INTO `+config.SensorReadingsTable+` (sensor_id, parameters, recorded_at)
		VALUES ($1, $2, $3)`,
		payload.SensorID, params, recordedAt)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}

	wire, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if _, err := pool.Exec(ctx, `SELECT pg_notify('sensor_reading', $1)`, string(wire)); err != nil {
		return fmt.Errorf("notify listener: %w", err)
	}

	logger.Info("Reading ingested",
		"sensor_id", payload.SensorID,
		"parameters", len(payload.Parameters),
		"recorded_at", recordedAt.Format(time.RFC3339))
	return nil
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runIngest handles config loading, DB connection, and context cancellation.
func runIngest(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
