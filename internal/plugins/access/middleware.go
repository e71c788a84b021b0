package access

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireElevated gates a route on a live elevated session. The token
// travels in the Authorization header as a bearer token; there are no
// cookies, so the gate needs no CSRF defense.
func RequireElevated(service AccessService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if err := service.Validate(c.Request().Context(), token); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when the header is absent or malformed.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
