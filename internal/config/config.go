package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Document filepaths are stored relative to RootDir and must stay
	// under UploadDir.
	RootDir   string
	UploadDir string

	DBDriver     string
	DBConnection string

	// Request header carrying the acting user's email. Empty disables it.
	TrustedUserHeader string

	// Per-IP limit on the generation endpoints.
	GenerateRateLimit  int
	GenerateRateWindow time.Duration

	EmailFrom    string
	ResendAPIKey string

	SentryDSN string

	StorageDriver          string
	S3Region               string
	S3Bucket               string
	S3AccessKey            string
	S3SecretKey            string
	S3Endpoint             string
	S3PresignExpiryPrivate time.Duration
}

const defaultSQLite = "./data/lexdesk.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Load reads .env and the environment, and exits when the result is not
// usable.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() *Config {
	return &Config{
		AppName: envString("APP_NAME", "Lexdesk"),
		AppEnv:  envString("APP_ENV", ""),
		AppURL:  envString("APP_URL", "http://localhost:8090"),
		Port:    envString("PORT", "8090"),

		RootDir:   envString("ROOT_DIR", "."),
		UploadDir: envString("UPLOAD_DIR", "uploads/documents"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", defaultSQLite),

		TrustedUserHeader: envString("TRUSTED_USER_HEADER", ""),

		GenerateRateLimit:  envInt("GENERATE_RATE_LIMIT", 30),
		GenerateRateWindow: envDuration("GENERATE_RATE_WINDOW", time.Minute),

		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		SentryDSN: envString("SENTRY_DSN", ""),

		StorageDriver:          envString("STORAGE_DRIVER", StorageLocal),
		S3Region:               envString("S3_REGION", ""),
		S3Bucket:               envString("S3_BUCKET", ""),
		S3AccessKey:            envString("S3_ACCESS_KEY", ""),
		S3SecretKey:            envString("S3_SECRET_KEY", ""),
		S3Endpoint:             envString("S3_ENDPOINT", ""),
		S3PresignExpiryPrivate: envDuration("S3_PRESIGN_EXPIRY_PRIVATE", time.Hour),
	}
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error
	missing := func(key string) {
		errs = append(errs, fmt.Errorf("%s is required", key))
	}

	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	case "":
		missing("APP_ENV")
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.AppEnv))
	}

	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}

	switch c.StorageDriver {
	case StorageLocal:
	case StorageS3:
		if c.S3Region == "" {
			missing("S3_REGION")
		}
		if c.S3Bucket == "" {
			missing("S3_BUCKET")
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not supported", c.StorageDriver))
	}

	upload := filepath.ToSlash(filepath.Clean(c.UploadDir))
	if filepath.IsAbs(c.UploadDir) || upload == "." || upload == ".." || strings.HasPrefix(upload, "../") {
		errs = append(errs, fmt.Errorf("UPLOAD_DIR %q must be a directory below ROOT_DIR", c.UploadDir))
	}

	// Development logs outgoing email instead of sending it.
	if c.IsProduction() && c.ResendAPIKey == "" {
		missing("RESEND_API_KEY")
	}

	return errors.Join(errs...)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Sanitized returns a copy without credentials or connection strings, safe
// to put in the request context.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:       c.AppName,
		AppEnv:        c.AppEnv,
		AppURL:        c.AppURL,
		Port:          c.Port,
		UploadDir:     c.UploadDir,
		EmailFrom:     c.EmailFrom,
		StorageDriver: c.StorageDriver,
		// CSP needs the endpoint.
		S3Endpoint: c.S3Endpoint,
	}
}
