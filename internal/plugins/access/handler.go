package access

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// Handler handles HTTP requests for elevated-mode sessions.
type Handler struct {
	service AccessService
}

// NewHandler creates a new access handler.
func NewHandler(service AccessService) *Handler {
	return &Handler{service: service}
}

// UnlockRequest holds a submitted access secret.
type UnlockRequest struct {
	Secret string `json:"secret"`
}

// unlockResponse carries a freshly minted elevated token.
type unlockResponse struct {
	Token string `json:"token"`
}

// Unlock verifies the access secret and returns an elevated token
// (POST /api/access/unlock, rate limited).
func (h *Handler) Unlock(c echo.Context) error {
	var req UnlockRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	token, err := h.service.Unlock(c.Request().Context(), req.Secret)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, unlockResponse{Token: token})
}

// Lock destroys the caller's elevated session (POST /api/access/lock).
func (h *Handler) Lock(c echo.Context) error {
	if err := h.service.Lock(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
