// Package main is the entry point for the Dossier server. It loads
// configuration, establishes database connections, wires together all
// plugins, starts the backdrop rotator, and starts the HTTP server.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyxmakerx/dossier/internal/app"
	"github.com/keyxmakerx/dossier/internal/config"
	"github.com/keyxmakerx/dossier/internal/database"
	"github.com/keyxmakerx/dossier/internal/plugins/roster"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	slog.Info("starting Dossier",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("storage_backend", cfg.Storage.Backend),
	)

	// --- Connect to MariaDB ---
	// Only the MariaDB snapshot backend needs a database; the default
	// Redis backend runs without one.
	var db *sql.DB
	if cfg.Storage.Backend == "mariadb" {
		db, err = database.NewMariaDB(cfg.Database)
		if err != nil {
			slog.Error("failed to connect to MariaDB", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("connected to MariaDB")

		if err := database.RunMigrations(db, cfg.Storage.MigrationsPath); err != nil {
			slog.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("connected to Redis")

	// --- Create Application ---
	application := app.New(cfg, db, rdb)

	// Background context cancelled on shutdown; stops the rotator.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rotator := roster.NewRotator(cfg.RotationInterval)

	// Register all routes; this also loads the archive snapshot.
	if err := application.RegisterRoutes(ctx, rotator); err != nil {
		slog.Error("failed to initialize application", slog.Any("error", err))
		os.Exit(1)
	}

	go rotator.Run(ctx)

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	// This is required for Docker/Cosmos restarts to be seamless.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")
		cancel()

		// Give in-flight requests 10 seconds to complete.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := application.Echo.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler

	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	slog.SetDefault(slog.New(handler))
}
