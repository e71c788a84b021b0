package roster

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the archive endpoints under the given API group.
// Destructive operations take the elevated-mode middleware: reading and
// adding to the archive is open, removing from it is not.
func RegisterRoutes(api *echo.Group, h *Handler, requireElevated echo.MiddlewareFunc) {
	campaigns := api.Group("/campaigns")
	campaigns.GET("", h.ListCampaigns)
	campaigns.POST("", h.CreateCampaign)
	campaigns.GET("/:id", h.GetCampaign)
	campaigns.DELETE("/:id", h.DeleteCampaign, requireElevated)
	campaigns.PUT("/:id/logo", h.SetLogo)

	campaigns.POST("/:id/characters", h.CreateCharacter)
	campaigns.PUT("/:id/characters/:characterID", h.UpdateCharacter)
	campaigns.DELETE("/:id/characters/:characterID", h.DeleteCharacter, requireElevated)

	campaigns.GET("/:id/backdrops", h.ListCampaignBackdrops)
	campaigns.POST("/:id/backdrops", h.AppendCampaignBackdrop)
	campaigns.DELETE("/:id/backdrops", h.ClearCampaignBackdrop)

	backdrops := api.Group("/backdrops")
	backdrops.GET("/global", h.ListGlobalBackdrop)
	backdrops.POST("/global", h.AppendGlobalBackdrop)
	backdrops.DELETE("/global", h.ClearGlobalBackdrop)
	backdrops.GET("/current", h.CurrentBackdrop)
}
