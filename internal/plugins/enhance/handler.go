package enhance

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// Handler handles HTTP requests for description enhancement.
type Handler struct {
	service EnhanceService
}

// NewHandler creates a new enhancement handler.
func NewHandler(service EnhanceService) *Handler {
	return &Handler{service: service}
}

// EnhanceRequest holds the text to rewrite plus optional framing context.
type EnhanceRequest struct {
	Text    string `json:"text"`
	Name    string `json:"name"`
	Setting string `json:"setting"`
}

// enhanceResponse carries the (possibly unchanged) result text.
type enhanceResponse struct {
	Text string `json:"text"`
}

// Enhance rewrites a character description (POST /api/enhance). Always
// returns 200 with text; a failed backend call is not an HTTP error.
func (h *Handler) Enhance(c echo.Context) error {
	var req EnhanceRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	out := h.service.Enhance(c.Request().Context(), req.Text, req.Name, req.Setting)
	return c.JSON(http.StatusOK, enhanceResponse{Text: out})
}
