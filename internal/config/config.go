// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// devAccessSecret is the elevated-mode secret used when none is configured.
// Only acceptable in development; Load refuses it in production.
const devAccessSecret = "dev-access-secret-do-not-use-in-production!!"

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for CORS origin checks.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Database holds MariaDB connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Storage holds archive snapshot persistence settings.
	Storage StorageConfig

	// Access holds elevated-mode gate settings.
	Access AccessConfig

	// Enhance holds external text-enhancement settings.
	Enhance EnhanceConfig

	// Upload holds image upload settings.
	Upload UploadConfig

	// RotationInterval is the backdrop rotation tick period.
	RotationInterval time.Duration
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so container
// orchestrators can manage each independently. If DATABASE_URL is set, it
// takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "dossier").
	User string

	// Password is the MariaDB password (default: "dossier").
	Password string

	// Name is the database name (default: "dossier").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// StorageConfig holds archive snapshot persistence settings.
type StorageConfig struct {
	// Backend selects the snapshot store: "redis" (default) or "mariadb".
	Backend string

	// MigrationsPath is the directory of SQL migration files, applied on
	// startup when the mariadb backend is selected.
	MigrationsPath string
}

// AccessConfig holds elevated-mode gate settings. The elevated secret is an
// anti-abuse convenience for destructive actions, not an authentication
// system -- there is exactly one shared secret and no user identities.
type AccessConfig struct {
	// Secret is the shared elevated-mode secret.
	Secret string

	// SessionTTL is how long an elevated session lasts before expiring.
	SessionTTL time.Duration
}

// EnhanceConfig holds external text-enhancement settings. An empty APIKey
// disables the feature; enhancement then degrades to pass-through.
type EnhanceConfig struct {
	// APIKey is the OpenAI-compatible API key. Empty means disabled.
	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string

	// Model is the model identifier used for rewrite requests.
	Model string

	// Timeout bounds a single enhancement call.
	Timeout time.Duration
}

// UploadConfig holds image upload settings.
type UploadConfig struct {
	// MaxSize is the maximum upload file size in bytes.
	MaxSize int64
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "dossier"),
			Password:        getEnv("DB_PASSWORD", "dossier"),
			Name:            getEnv("DB_NAME", "dossier"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Storage: StorageConfig{
			Backend:        getEnv("STORAGE_BACKEND", "redis"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "db/migrations"),
		},

		Access: AccessConfig{
			Secret:     getEnv("ACCESS_SECRET", ""),
			SessionTTL: getEnvDuration("ACCESS_SESSION_TTL", 12*time.Hour),
		},

		Enhance: EnhanceConfig{
			APIKey:  getEnv("ENHANCE_API_KEY", ""),
			BaseURL: getEnv("ENHANCE_BASE_URL", ""),
			Model:   getEnv("ENHANCE_MODEL", "gpt-4o-mini"),
			Timeout: getEnvDuration("ENHANCE_TIMEOUT", 30*time.Second),
		},

		Upload: UploadConfig{
			MaxSize: getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024), // 10MB
		},

		RotationInterval: getEnvDuration("ROTATION_INTERVAL", 10*time.Second),
	}

	backend := strings.ToLower(cfg.Storage.Backend)
	if backend != "redis" && backend != "mariadb" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be 'redis' or 'mariadb', got %q", cfg.Storage.Backend)
	}
	cfg.Storage.Backend = backend

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.Access.Secret == "" {
			return nil, fmt.Errorf("ACCESS_SECRET is required in production")
		}
		if len(cfg.Access.Secret) < 12 {
			return nil, fmt.Errorf("ACCESS_SECRET must be at least 12 characters in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if cfg.Access.Secret == "" {
		cfg.Access.Secret = devAccessSecret
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvInt64 reads an int64 env var or returns the default.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "12h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
