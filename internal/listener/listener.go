// Package listener provides a Postgres LISTEN/NOTIFY consumer for incoming
// sensor readings. It holds a dedicated pgx connection (not from the pool)
// listening on the `sensor_reading` channel.
//
// The ingestion pipeline writes a reading row and fires pg_notify; this
// consumer receives the payload and runs it through the threshold alerting
// pipeline.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/farmsight/farmsight-data/internal/alerts"
)

const (
	channel          = "sensor_reading"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ReadingEvent is the JSON payload from pg_notify('sensor_reading', ...).
type ReadingEvent struct {
	SensorID   string                 `json:"sensor_id"`
	Parameters map[string]interface{} `json:"parameters"`
	Timestamp  int64                  `json:"ts"` // unix seconds, reading's logical time
}

// Start opens a dedicated connection and listens on the sensor_reading
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, deps *alerts.Deps, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, deps, logger)
		if ctx.Err() != nil {
			logger.Info("Sensor listener stopped (context cancelled)")
			return
		}

		logger.Error("Sensor listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, deps *alerts.Deps, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Sensor listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event ReadingEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse sensor reading event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Sensor reading received",
			"sensor_id", event.SensorID,
			"parameters", len(event.Parameters),
			"ts", event.Timestamp)

		// Process asynchronously to avoid blocking the listener
		go handleReading(ctx, deps, event, logger)
	}
}

// handleReading runs one reading through the alert pipeline.
func handleReading(ctx context.Context, deps *alerts.Deps, event ReadingEvent, logger *slog.Logger) {
	reading := alerts.Reading{
		Parameters: event.Parameters,
		Timestamp:  time.Unix(event.Timestamp, 0).UTC(),
	}

	if _, err := alerts.Run(ctx, deps, reading, logger); err != nil {
		logger.Warn("Alert pipeline failed for sensor reading",
			"sensor_id", event.SensorID, "error", err)
	}
}
