// Command api is the FarmSight Data API server.
//
// Usage:
//
//	farmsight-api
//	API_PORT=8080 farmsight-api

// @title FarmSight Data API
// @version 1.0.0
// @description Farm management backend core: plant lifecycle scheduling and environmental threshold alerting.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name FarmSight
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/farmsight/farmsight-data/internal/alerts"
	"github.com/farmsight/farmsight-data/internal/api"
	"github.com/farmsight/farmsight-data/internal/config"
	"github.com/farmsight/farmsight-data/internal/db"
	"github.com/farmsight/farmsight-data/internal/external"
	"github.com/farmsight/farmsight-data/internal/lifecycle"
	"github.com/farmsight/farmsight-data/internal/listener"
	"github.com/farmsight/farmsight-data/internal/maintenance"

	_ "github.com/farmsight/farmsight-data/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Lifecycle scheduler: daily advance at the configured local time
	plantStore := lifecycle.NewPGStore(pool.Pool)
	lifecycleDeps := &lifecycle.Deps{
		Plants:  plantStore,
		Events:  plantStore,
		Workers: cfg.LifecycleWorkers,
	}
	sched := lifecycle.NewScheduler(lifecycleDeps, cfg, logger)
	go sched.Start(ctx)

	// Alerting pipeline dependencies
	alertStore := alerts.NewPGStore(pool.Pool, cfg.AlertRoles)
	smsSender := external.NewSMSSender(cfg.SMSBaseURL, cfg.SMSAccountID, cfg.SMSAuthToken, cfg.SMSFromNumber)
	alertDeps := &alerts.Deps{
		Ranges:      cfg.Ranges,
		Dedup:       alerts.NewDeduper(alertStore, logger),
		Recipients:  alertStore,
		SendTimeout: cfg.SendTimeout,
	}
	if smsSender.IsConfigured() {
		alertDeps.Sender = smsSender
		logger.Info("SMS gateway configured", "from", cfg.SMSFromNumber)
	} else {
		logger.Info("SMS gateway disabled (missing SMS_* configuration)")
	}

	// Start LISTEN/NOTIFY consumer for incoming sensor readings
	if cfg.ListenerEnabled {
		go listener.Start(ctx, cfg.DatabaseURL, alertDeps, logger)
	} else {
		logger.Info("Sensor listener disabled")
	}

	// Start maintenance tickers (alert record retention purge)
	go maintenance.Start(ctx, pool.Pool, maintenance.Config{
		PurgeInterval:  cfg.PurgeInterval,
		AlertRetention: cfg.AlertRetention,
	}, logger)

	// Create router
	router := api.NewRouter(pool.Pool, cfg, sched, alertDeps, alertStore, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting FarmSight Data API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
