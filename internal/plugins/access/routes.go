package access

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the elevated-mode endpoints under the given API
// group. Unlock takes a rate limiter so the shared secret cannot be
// brute-forced at request speed.
func RegisterRoutes(api *echo.Group, h *Handler, rateLimit echo.MiddlewareFunc) {
	grp := api.Group("/access")
	grp.POST("/unlock", h.Unlock, rateLimit)
	grp.POST("/lock", h.Lock)
}
