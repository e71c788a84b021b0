package media

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// Handler handles HTTP requests for image uploads.
type Handler struct {
	service MediaService
	maxSize int64
}

// NewHandler creates a new media handler.
func NewHandler(service MediaService, maxSize int64) *Handler {
	return &Handler{service: service, maxSize: maxSize}
}

// uploadResponse carries the encoded image ready to attach to a record.
type uploadResponse struct {
	Image string `json:"image"`
}

// Upload converts a multipart image upload into a data URL
// (POST /api/media/upload, field name "file").
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperror.NewBadRequest("no file provided")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("opening upload: %w", err))
	}
	defer src.Close()

	// Read one byte past the cap so an oversized file is rejected by the
	// service rather than silently truncated here.
	data, err := io.ReadAll(io.LimitReader(src, h.maxSize+1))
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("reading upload: %w", err))
	}

	image, err := h.service.EncodeDataURL(data)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, uploadResponse{Image: image})
}
