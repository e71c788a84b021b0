package enhance

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the enhancement endpoint under the given API group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.POST("/enhance", h.Enhance)
}
