package media

import (
	"errors"
	"strings"
	"testing"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// pngHeader is a minimal valid PNG signature plus padding, enough for
// http.DetectContentType to sniff image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

// assertAppError checks that an error is an AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status code %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func TestEncodeDataURL_PNG(t *testing.T) {
	svc := NewMediaService(1024)

	url, err := svc.EncodeDataURL(pngHeader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("expected a PNG data URL, got %q", url)
	}
}

func TestEncodeDataURL_RejectsNonImage(t *testing.T) {
	svc := NewMediaService(1024)

	_, err := svc.EncodeDataURL([]byte("#!/bin/sh\nrm -rf /\n"))
	assertAppError(t, err, 422)
}

func TestEncodeDataURL_RejectsOversized(t *testing.T) {
	svc := NewMediaService(8)

	_, err := svc.EncodeDataURL(pngHeader)
	assertAppError(t, err, 422)
}

func TestEncodeDataURL_RejectsEmpty(t *testing.T) {
	svc := NewMediaService(1024)

	_, err := svc.EncodeDataURL(nil)
	assertAppError(t, err, 422)
}
