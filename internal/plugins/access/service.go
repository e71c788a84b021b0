// Package access implements elevated mode: a single shared secret that,
// when presented, grants a time-limited token unlocking destructive
// operations. There are no user accounts; the archive is a trusted-table
// tool and elevated mode only guards against accidental or casual damage.
package access

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/argon2"

	"github.com/keyxmakerx/dossier/internal/apperror"
)

// argon2id parameters tuned for a self-hosted application running on
// modest hardware, following the OWASP recommendations for argon2id:
// memory=64MB, iterations=3, parallelism=4.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB in KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// sessionKeyPrefix namespaces elevated session tokens in Redis.
const sessionKeyPrefix = "elevated:"

// sessionTokenBytes is the entropy of an elevated session token.
const sessionTokenBytes = 32

// Session is the data stored against an elevated token.
type Session struct {
	CreatedAt time.Time `json:"createdAt"`
}

// AccessService manages elevated-mode sessions.
type AccessService interface {
	// Unlock verifies the access secret and returns a fresh elevated token.
	Unlock(ctx context.Context, secret string) (string, error)

	// Validate checks that a token names a live elevated session.
	Validate(ctx context.Context, token string) error

	// Lock destroys an elevated session. Unknown tokens are not an error;
	// locking is idempotent.
	Lock(ctx context.Context, token string) error
}

// accessService implements AccessService with an argon2id-hashed secret
// and Redis-backed sessions. The plaintext secret is hashed once at
// construction and never retained.
type accessService struct {
	redis      *redis.Client
	secretHash string
	sessionTTL time.Duration
}

// NewAccessService creates an access service for the configured secret.
func NewAccessService(rdb *redis.Client, secret string, sessionTTL time.Duration) (AccessService, error) {
	hash, err := hashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("hashing access secret: %w", err)
	}
	return &accessService{
		redis:      rdb,
		secretHash: hash,
		sessionTTL: sessionTTL,
	}, nil
}

// Unlock verifies the secret and mints an elevated session. The rejection
// message is deliberately uniform; callers learn nothing about why a
// guess failed.
func (s *accessService) Unlock(ctx context.Context, secret string) (string, error) {
	if !verifySecret(secret, s.secretHash) {
		return "", apperror.NewUnauthorized("invalid access secret")
	}

	token, err := generateSessionToken()
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("generating elevated token: %w", err))
	}

	data, err := json.Marshal(Session{CreatedAt: time.Now().UTC()})
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("marshaling elevated session: %w", err))
	}

	key := sessionKeyPrefix + token
	if err := s.redis.Set(ctx, key, data, s.sessionTTL).Err(); err != nil {
		return "", apperror.NewInternal(fmt.Errorf("storing elevated session: %w", err))
	}

	slog.Info("elevated mode unlocked")
	return token, nil
}

// Validate checks a token against Redis.
func (s *accessService) Validate(ctx context.Context, token string) error {
	if token == "" {
		return apperror.NewUnauthorized("elevated access required")
	}

	err := s.redis.Get(ctx, sessionKeyPrefix+token).Err()
	if err == redis.Nil {
		return apperror.NewUnauthorized("elevated session expired or invalid")
	}
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("reading elevated session: %w", err))
	}
	return nil
}

// Lock destroys an elevated session.
func (s *accessService) Lock(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting elevated session: %w", err))
	}

	slog.Info("elevated mode locked")
	return nil
}

// --- Secret hashing (argon2id) ---

// hashSecret creates an argon2id hash of the access secret. The output
// format is: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func hashSecret(secret string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	// Encode to the standard PHC string format.
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, b64Salt, b64Hash)

	return encoded, nil
}

// verifySecret checks a submitted secret against an argon2id hash string.
func verifySecret(secret, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computedHash := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Constant-time comparison to prevent timing attacks.
	return subtle.ConstantTimeCompare(expectedHash, computedHash) == 1
}

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
