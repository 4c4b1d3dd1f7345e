// Command api is the DeviceTracker API server.
//
// Usage:
//
//	devicetracker-api
//	API_PORT=8080 devicetracker-api

// @title DeviceTracker API
// @version 1.0.0
// @description Device maintenance inventory with due-date auditing, CSV export, and summary notification scheduling.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name DeviceTracker
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

	"github.com/devtrack/devicetracker/internal/api"
	"github.com/devtrack/devicetracker/internal/cache"
	"github.com/devtrack/devicetracker/internal/config"
	"github.com/devtrack/devicetracker/internal/db"
	"github.com/devtrack/devicetracker/internal/device"
	"github.com/devtrack/devicetracker/internal/notify"

	_ "github.com/devtrack/devicetracker/docs" // swagger docs
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

	// Apply embedded migrations before opening the pool
	if err := db.Migrate(cfg.DatabaseURL, "up"); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

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

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Stores
	devices := device.NewStore(pool.Pool, logger)
	notes := notify.NewStore(pool.Pool)

	// Notification pipeline: badge + rebuilder + single-goroutine scheduler
	loc := cfg.Location()
	badge := notify.NewCountBadge()
	rebuilder := notify.NewRebuilder(devices, notes, badge, notify.MorningAt(cfg.MorningHour), loc, logger)
	scheduler := notify.NewScheduler(rebuilder, logger)
	go scheduler.Run(ctx)

	// Rebuild once at launch so the badge and summaries reflect the stored
	// inventory before the first mutation arrives.
	scheduler.Request()

	// Daily refresh keeps summaries honest across midnight boundaries.
	refresher := notify.NewDailyRefresher(scheduler.Request, loc, logger)
	refresher.Arm(cfg.RefreshHour, cfg.RefreshMinute)
	defer refresher.Invalidate()

	// Dispatch worker delivers fired notifications to the log surface.
	go notify.StartWorker(ctx, notes, notify.NewLogSender(logger), cfg.DispatchInterval, logger)

	// Create router
	router := api.NewRouter(api.Deps{
		Pool:      pool.Pool,
		Devices:   devices,
		Notes:     notes,
		Scheduler: scheduler,
		Badge:     badge,
		Cache:     appCache,
		Logger:    logger,
	}, cfg)

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
		logger.Info("Starting DeviceTracker API",
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
