// Package media turns uploaded image files into data URLs. Logos,
// character portraits, and backdrops are all stored inline in the archive
// snapshot, so an upload never touches disk: the file is validated,
// base64-encoded, and handed back for the client to attach to a record.
package media

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// MediaService converts uploads into embeddable image payloads.
type MediaService interface {
	// EncodeDataURL validates that data is an image within the size cap and
	// returns it as a base64 data URL.
	EncodeDataURL(data []byte) (string, error)
}

// mediaService implements MediaService.
type mediaService struct {
	maxSize int64 // Maximum file size in bytes.
}

// NewMediaService creates a media service with the given upload size cap.
func NewMediaService(maxSize int64) MediaService {
	return &mediaService{maxSize: maxSize}
}

// EncodeDataURL sniffs the content type from the bytes themselves; the
// client-declared type is ignored since it costs nothing to lie in a
// multipart header.
func (s *mediaService) EncodeDataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperror.NewValidation("uploaded file is empty")
	}
	if int64(len(data)) > s.maxSize {
		return "", apperror.NewValidation(
			fmt.Sprintf("file too large; maximum size is %d MB", s.maxSize/(1024*1024)))
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperror.NewValidation("unsupported file type: " + contentType)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", contentType, encoded), nil
}
