package roster

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// DegradedHeader is set to "true" on responses while snapshot writes are
// failing, so clients can warn that changes may not survive a restart.
const DegradedHeader = "X-Storage-Degraded"

// Handler handles HTTP requests for archive operations. Handlers are thin:
// bind request, call service, encode response. No business logic lives here.
type Handler struct {
	service RosterService
	rotator *Rotator
}

// NewHandler creates a new roster handler.
func NewHandler(service RosterService, rotator *Rotator) *Handler {
	return &Handler{service: service, rotator: rotator}
}

// --- Campaign CRUD ---

// ListCampaigns returns all campaigns (GET /api/campaigns).
func (h *Handler) ListCampaigns(c echo.Context) error {
	h.markDegraded(c)
	return c.JSON(http.StatusOK, h.service.ListCampaigns(c.Request().Context()))
}

// GetCampaign returns one campaign (GET /api/campaigns/:id).
func (h *Handler) GetCampaign(c echo.Context) error {
	campaign, err := h.service.GetCampaign(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	h.markDegraded(c)
	return c.JSON(http.StatusOK, campaign)
}

// CreateCampaign creates a campaign (POST /api/campaigns).
func (h *Handler) CreateCampaign(c echo.Context) error {
	var req CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	campaign, err := h.service.CreateCampaign(c.Request().Context(), CreateCampaignInput{
		Title:   req.Title,
		System:  req.System,
		Setting: req.Setting,
		Theme:   Theme(req.Theme),
	})
	if err != nil {
		return err
	}

	h.markDegraded(c)
	return c.JSON(http.StatusCreated, campaign)
}

// DeleteCampaign deletes a campaign and everything under it
// (DELETE /api/campaigns/:id, elevated).
func (h *Handler) DeleteCampaign(c echo.Context) error {
	if err := h.service.DeleteCampaign(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// SetLogo replaces a campaign's logo (PUT /api/campaigns/:id/logo).
func (h *Handler) SetLogo(c echo.Context) error {
	var req SetLogoRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.SetLogo(c.Request().Context(), c.Param("id"), req.Logo); err != nil {
		return err
	}
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// --- Characters ---

// CreateCharacter adds a character with creation defaults
// (POST /api/campaigns/:id/characters).
func (h *Handler) CreateCharacter(c echo.Context) error {
	var req CreateCharacterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	ch, err := h.service.CreateCharacter(c.Request().Context(), c.Param("id"), CharacterType(req.Type))
	if err != nil {
		return err
	}

	h.markDegraded(c)
	return c.JSON(http.StatusCreated, ch)
}

// UpdateCharacter replaces a character record in full
// (PUT /api/campaigns/:id/characters/:characterID).
func (h *Handler) UpdateCharacter(c echo.Context) error {
	var ch Character
	if err := c.Bind(&ch); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	// The path, not the body, names the record being replaced.
	ch.ID = c.Param("characterID")

	updated, err := h.service.UpdateCharacter(c.Request().Context(), c.Param("id"), ch)
	if err != nil {
		return err
	}

	h.markDegraded(c)
	return c.JSON(http.StatusOK, updated)
}

// DeleteCharacter removes a character
// (DELETE /api/campaigns/:id/characters/:characterID, elevated).
func (h *Handler) DeleteCharacter(c echo.Context) error {
	err := h.service.DeleteCharacter(c.Request().Context(), c.Param("id"), c.Param("characterID"))
	if err != nil {
		return err
	}
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// --- Backdrops ---

// ListCampaignBackdrops returns a campaign's backdrop list
// (GET /api/campaigns/:id/backdrops).
func (h *Handler) ListCampaignBackdrops(c echo.Context) error {
	list, err := h.service.CampaignBackdrops(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	h.markDegraded(c)
	return c.JSON(http.StatusOK, list)
}

// AppendCampaignBackdrop appends an image to a campaign's backdrop list
// (POST /api/campaigns/:id/backdrops).
func (h *Handler) AppendCampaignBackdrop(c echo.Context) error {
	var req AppendBackdropRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	if err := h.service.AppendCampaignBackdrop(c.Request().Context(), c.Param("id"), req.Image); err != nil {
		return err
	}
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// ClearCampaignBackdrop empties a campaign's backdrop list
// (DELETE /api/campaigns/:id/backdrops).
func (h *Handler) ClearCampaignBackdrop(c echo.Context) error {
	if err := h.service.ClearCampaignBackdrop(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// ListGlobalBackdrop returns the global backdrop list
// (GET /api/backdrops/global).
func (h *Handler) ListGlobalBackdrop(c echo.Context) error {
	h.markDegraded(c)
	return c.JSON(http.StatusOK, h.service.GlobalBackdrop(c.Request().Context()))
}

// AppendGlobalBackdrop appends an image to the global backdrop list
// (POST /api/backdrops/global).
func (h *Handler) AppendGlobalBackdrop(c echo.Context) error {
	var req AppendBackdropRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	h.service.AppendGlobalBackdrop(c.Request().Context(), req.Image)
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// ClearGlobalBackdrop empties the global backdrop list
// (DELETE /api/backdrops/global).
func (h *Handler) ClearGlobalBackdrop(c echo.Context) error {
	h.service.ClearGlobalBackdrop(c.Request().Context())
	h.markDegraded(c)
	return c.NoContent(http.StatusNoContent)
}

// currentBackdropResponse is the payload for the current-backdrop poll.
type currentBackdropResponse struct {
	Image string `json:"image,omitempty"`
	Tick  int    `json:"tick"`
}

// CurrentBackdrop returns the image shown at the current rotation tick
// (GET /api/backdrops/current?campaign=<id>). Clients may also pass an
// explicit tick to render a deterministic frame.
func (h *Handler) CurrentBackdrop(c echo.Context) error {
	tick := h.rotator.Tick()
	if raw := c.QueryParam("tick"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperror.NewBadRequest("tick must be a non-negative integer")
		}
		tick = parsed
	}

	image, ok := h.service.CurrentBackdrop(c.Request().Context(), c.QueryParam("campaign"), tick)
	if !ok {
		return c.JSON(http.StatusOK, currentBackdropResponse{Tick: tick})
	}
	return c.JSON(http.StatusOK, currentBackdropResponse{Image: image, Tick: tick})
}

// markDegraded flags the response while snapshot writes are failing.
func (h *Handler) markDegraded(c echo.Context) {
	if h.service.Degraded() {
		c.Response().Header().Set(DegradedHeader, "true")
	}
}
