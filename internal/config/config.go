// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads runtime settings from FOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-secret-key-change-in-production",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"FOLIO_SERVER_PORT" envDefault:"8000"`
	Env        string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel   string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`

	// Applies to JSON routes. Uploads are not bounded by it.
	RequestTimeout  time.Duration `env:"FOLIO_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"FOLIO_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Document store
	Store     string `env:"FOLIO_STORE" envDefault:"sqlite"`
	DBPath    string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	MongoURI  string `env:"FOLIO_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoName string `env:"FOLIO_MONGO_DATABASE" envDefault:"portfolio_db"`

	// Admin identity. AdminPassword may hold an Argon2id hash ($argon2id$...).
	AdminEmail    string        `env:"FOLIO_ADMIN_EMAIL,required"`
	AdminPassword string        `env:"FOLIO_ADMIN_PASSWORD,required"`
	JWTSecret     string        `env:"FOLIO_JWT_SECRET,required"`
	JWTIssuer     string        `env:"FOLIO_JWT_ISSUER" envDefault:"folio"`
	JWTTTL        time.Duration `env:"FOLIO_JWT_TTL" envDefault:"24h"`

	// Comma-separated list of allowed browser origins.
	CORSOrigins []string `env:"FOLIO_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// Google Drive
	DriveCredentialsFile string `env:"FOLIO_DRIVE_CREDENTIALS_FILE"`
	DriveCredentialsJSON string `env:"FOLIO_DRIVE_CREDENTIALS_JSON"`
	DriveFolderID        string `env:"FOLIO_DRIVE_FOLDER_ID"`

	// Cloudinary
	CloudinaryCloudName string `env:"FOLIO_CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"FOLIO_CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"FOLIO_CLOUDINARY_API_SECRET"`

	// Uploads
	MaxUploadMB   int64 `env:"FOLIO_MAX_UPLOAD_MB" envDefault:"200"`
	ImageMaxWidth int   `env:"FOLIO_IMAGE_MAX_WIDTH" envDefault:"2560"`

	// GeoIP configuration
	GeoIPDBPath string `env:"FOLIO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Rate limits
	LoginRateLimit   int     `env:"FOLIO_LOGIN_RATE_LIMIT" envDefault:"10"`  // per IP per minute
	ContactRateLimit int     `env:"FOLIO_CONTACT_RATE_LIMIT" envDefault:"5"` // per IP per minute
	TrackRateLimit   int     `env:"FOLIO_TRACK_RATE_LIMIT" envDefault:"120"` // per IP per minute
	APIRateLimit     float64 `env:"FOLIO_API_RATE_LIMIT" envDefault:"50"`    // global requests per second
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// DriveEnabled returns true if Google Drive credentials are configured.
func (c Config) DriveEnabled() bool {
	return c.DriveCredentialsFile != "" || c.DriveCredentialsJSON != ""
}

// CloudinaryEnabled returns true if Cloudinary credentials are configured.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
// HS256 needs at least 32 bytes of key material.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("FOLIO_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("FOLIO_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return errors.New("FOLIO_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !strings.Contains(c.AdminEmail, "@") {
		return fmt.Errorf("FOLIO_ADMIN_EMAIL %q is not an email address", c.AdminEmail)
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("FOLIO_JWT_TTL must be positive, got %s", c.JWTTTL)
	}

	switch c.Store {
	case StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("FOLIO_STORE must be %q or %q, got %q", StoreSQLite, StoreMongo, c.Store)
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("FOLIO_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
