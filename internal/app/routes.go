package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/dossier/internal/middleware"
	"github.com/keyxmakerx/dossier/internal/plugins/access"
	"github.com/keyxmakerx/dossier/internal/plugins/enhance"
	"github.com/keyxmakerx/dossier/internal/plugins/media"
	"github.com/keyxmakerx/dossier/internal/plugins/roster"
)

// RegisterRoutes builds the plugin services from the shared infrastructure
// and wires every route. This is the single place where all routes are
// aggregated; when a new plugin is added, its routes are registered here.
//
// Loading the archive snapshot happens here too, so a dead snapshot store
// fails startup instead of serving an empty archive.
func (a *App) RegisterRoutes(ctx context.Context, rotator *roster.Rotator) error {
	e := a.Echo

	// Snapshot repository -- Redis by default, MariaDB when selected.
	var snapshots roster.SnapshotRepository
	switch a.Config.Storage.Backend {
	case "mariadb":
		snapshots = roster.NewMariaDBSnapshotRepository(a.DB)
	default:
		snapshots = roster.NewRedisSnapshotRepository(a.Redis)
	}

	store, err := roster.Load(ctx, snapshots)
	if err != nil {
		return fmt.Errorf("loading archive snapshot: %w", err)
	}

	rosterService := roster.NewRosterService(store, snapshots)

	accessService, err := access.NewAccessService(
		a.Redis, a.Config.Access.Secret, a.Config.Access.SessionTTL)
	if err != nil {
		return fmt.Errorf("building access service: %w", err)
	}

	enhanceService := enhance.NewEnhanceService(
		enhance.NewOpenAIBackend(a.Config.Enhance), a.Config.Enhance.Timeout)

	mediaService := media.NewMediaService(a.Config.Upload.MaxSize)

	// --- Public Routes ---

	// Health check endpoint for Docker/Cosmos health monitoring.
	e.GET("/health", func(c echo.Context) error {
		pingCtx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := a.Redis.Ping(pingCtx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"redis":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- API Routes ---

	api := e.Group("/api")

	// Operational status for the front-end banner.
	api.GET("/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"storageBackend": a.Config.Storage.Backend,
			"degraded":       rosterService.Degraded(),
		})
	})

	requireElevated := access.RequireElevated(accessService)

	// Rate limit unlock attempts: 10 per minute per IP. The access secret
	// is the only credential in the system; this is its brute-force guard.
	unlockRateLimit := middleware.RateLimit(10, time.Minute)

	roster.RegisterRoutes(api, roster.NewHandler(rosterService, rotator), requireElevated)
	access.RegisterRoutes(api, access.NewHandler(accessService), unlockRateLimit)
	enhance.RegisterRoutes(api, enhance.NewHandler(enhanceService))
	media.RegisterRoutes(api, media.NewHandler(mediaService, a.Config.Upload.MaxSize), a.Config.Upload.MaxSize)

	return nil
}
