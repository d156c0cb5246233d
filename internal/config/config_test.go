// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

// setRequired clears the environment and sets the required variables.
func setRequired(t *testing.T) {
	t.Helper()
	os.Clearenv()
	setEnv(t, "FOLIO_ADMIN_EMAIL", "admin@example.com")
	setEnv(t, "FOLIO_ADMIN_PASSWORD", "pw")
	setEnv(t, "FOLIO_JWT_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreSQLite)
	}
	if cfg.DBPath != "./data/folio.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/folio.db")
	}
	if cfg.ServerAddr() != "localhost:8000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8000")
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("JWTTTL = %v, want 24h", cfg.JWTTTL)
	}
	if cfg.JWTIssuer != "folio" {
		t.Errorf("JWTIssuer = %q, want folio", cfg.JWTIssuer)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 defaults", cfg.CORSOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.DriveEnabled() || cfg.CloudinaryEnabled() || cfg.GeoIPEnabled() {
		t.Error("optional integrations should be disabled by default")
	}
	if cfg.MaxUploadBytes() != 200<<20 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), 200<<20)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.ShutdownTimeout != 15*time.Second {
		t.Errorf("timeouts = %v/%v, want 30s/15s", cfg.RequestTimeout, cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	setEnv(t, "FOLIO_STORE", "mongo")
	setEnv(t, "FOLIO_MONGO_URI", "mongodb://db:27017")
	setEnv(t, "FOLIO_SERVER_PORT", "3000")
	setEnv(t, "FOLIO_ENV", "production")
	setEnv(t, "FOLIO_JWT_TTL", "90m")
	setEnv(t, "FOLIO_CORS_ORIGINS", "https://a.example,https://b.example,https://c.example")
	setEnv(t, "FOLIO_CLOUDINARY_CLOUD_NAME", "demo")
	setEnv(t, "FOLIO_CLOUDINARY_API_KEY", "key")
	setEnv(t, "FOLIO_CLOUDINARY_API_SECRET", "secret")
	setEnv(t, "FOLIO_DRIVE_CREDENTIALS_JSON", "{}")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Store != StoreMongo || cfg.MongoURI != "mongodb://db:27017" {
		t.Errorf("store = %q %q", cfg.Store, cfg.MongoURI)
	}
	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d, want 3000", cfg.ServerPort)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.JWTTTL != 90*time.Minute {
		t.Errorf("JWTTTL = %v, want 90m", cfg.JWTTTL)
	}
	if len(cfg.CORSOrigins) != 3 {
		t.Errorf("CORSOrigins = %v, want 3", cfg.CORSOrigins)
	}
	if !cfg.CloudinaryEnabled() || !cfg.DriveEnabled() {
		t.Error("Cloudinary and Drive should be enabled")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"short secret", "FOLIO_JWT_SECRET", "short", "at least 32 bytes"},
		{"weak secret", "FOLIO_JWT_SECRET", "change-me-to-32-byte-secret-key!", "known default"},
		{"bad email", "FOLIO_ADMIN_EMAIL", "admin", "not an email"},
		{"bad store", "FOLIO_STORE", "postgres", "FOLIO_STORE"},
		{"zero ttl", "FOLIO_JWT_TTL", "0s", "FOLIO_JWT_TTL"},
		{"zero upload", "FOLIO_MAX_UPLOAD_MB", "0", "FOLIO_MAX_UPLOAD_MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			setEnv(t, tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Clearenv()
	if _, err := Load(); err == nil {
		t.Error("Load() should fail without admin identity and secret")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcdefgh12345678abcdefgh12345678", false},
		{"Abcdefgh12345678abcdefgh12345678", true},
		{"abc-def-123-456-abc-def-123-4567", true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.s); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
