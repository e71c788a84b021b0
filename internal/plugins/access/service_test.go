package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

const testSecret = "open-sesame-123"

func newTestAccessService(t *testing.T) (AccessService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc, err := NewAccessService(rdb, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, mr
}

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

func TestUnlock_CorrectSecret(t *testing.T) {
	svc, _ := newTestAccessService(t)
	ctx := context.Background()

	token, err := svc.Unlock(ctx, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	if err := svc.Validate(ctx, token); err != nil {
		t.Errorf("expected the fresh token to validate: %v", err)
	}
}

func TestUnlock_WrongSecret(t *testing.T) {
	svc, _ := newTestAccessService(t)

	_, err := svc.Unlock(context.Background(), "wrong-guess")
	assertAppError(t, err, 401)
}

func TestValidate_UnknownToken(t *testing.T) {
	svc, _ := newTestAccessService(t)

	assertAppError(t, svc.Validate(context.Background(), "deadbeef"), 401)
}

func TestValidate_EmptyToken(t *testing.T) {
	svc, _ := newTestAccessService(t)

	assertAppError(t, svc.Validate(context.Background(), ""), 401)
}

func TestValidate_ExpiredSession(t *testing.T) {
	svc, mr := newTestAccessService(t)
	ctx := context.Background()

	token, err := svc.Unlock(ctx, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	assertAppError(t, svc.Validate(ctx, token), 401)
}

func TestLock_DestroysSession(t *testing.T) {
	svc, _ := newTestAccessService(t)
	ctx := context.Background()

	token, err := svc.Unlock(ctx, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Lock(ctx, token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAppError(t, svc.Validate(ctx, token), 401)

	// Locking again is a no-op, not an error.
	if err := svc.Lock(ctx, token); err != nil {
		t.Errorf("expected idempotent lock, got %v", err)
	}
}

func TestUnlock_TokensAreUnique(t *testing.T) {
	svc, _ := newTestAccessService(t)
	ctx := context.Background()

	a, err := svc.Unlock(ctx, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Unlock(ctx, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Error("expected each unlock to mint a distinct token")
	}
}

func TestSecretHashing_RoundTrip(t *testing.T) {
	hash, err := hashSecret("hunter2-but-long")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !verifySecret("hunter2-but-long", hash) {
		t.Error("expected the correct secret to verify")
	}
	if verifySecret("hunter3-but-long", hash) {
		t.Error("expected a wrong secret to fail")
	}
	if verifySecret("hunter2-but-long", "not-a-phc-string") {
		t.Error("expected a malformed hash to fail closed")
	}
}
