// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/cdn"
	"github.com/olegiv/folio-go/internal/config"
	"github.com/olegiv/folio-go/internal/drive"
	"github.com/olegiv/folio-go/internal/geoip"
	"github.com/olegiv/folio-go/internal/handler/api"
	"github.com/olegiv/folio-go/internal/imaging"
	"github.com/olegiv/folio-go/internal/logging"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/store/mongostore"
	"github.com/olegiv/folio-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	hashPassword := flag.String("hash-password", "", "Print an Argon2id hash of the given password for FOLIO_ADMIN_PASSWORD and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "folio - portfolio backend API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ADMIN_EMAIL       Admin login email (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ADMIN_PASSWORD    Admin password or Argon2id hash (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_JWT_SECRET        Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_STORE             sqlite|mongo (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_DB_PATH           SQLite database path (default: ./data/folio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_MONGO_URI         MongoDB connection string\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SERVER_PORT       Server port (default: 8000)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("folio %s\n", version.Current())
		os.Exit(0)
	}

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(hash)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(logging.NewMetricsHandler(textHandler))
	slog.SetDefault(logger)

	ctx := context.Background()

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()
	slog.Info("store ready", "backend", db.Backend())

	var provider drive.Provider
	if cfg.DriveEnabled() {
		gp, err := drive.NewGoogleProvider(ctx, cfg.DriveCredentialsFile, cfg.DriveCredentialsJSON)
		if err != nil {
			slog.Warn("google drive disabled", "error", err)
		} else {
			provider = gp
			slog.Info("google drive initialized", "folder_id", cfg.DriveFolderID)
		}
	}
	resolver := drive.NewResolver(provider, logger)

	var backend cdn.Backend
	if cfg.CloudinaryEnabled() {
		cb, err := cdn.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			slog.Warn("cloudinary disabled", "error", err)
		} else {
			backend = cb
			slog.Info("cloudinary initialized", "cloud", cfg.CloudinaryCloudName)
		}
	}
	uploader := cdn.NewUploader(backend, imaging.NewProcessor(cfg.ImageMaxWidth), logger)

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip lookups disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	h := api.NewHandler(api.Deps{
		DB:             db,
		Verifier:       auth.NewVerifier(auth.Identity{Email: cfg.AdminEmail, Password: cfg.AdminPassword}, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		Profiles:       service.NewProfileService(db, logger),
		Photos:         service.NewPhotoService(db, logger),
		Videos:         service.NewVideoService(db, logger),
		Edits:          service.NewEditService(db, logger),
		Contact:        service.NewContactService(db, logger),
		Analytics:      service.NewAnalyticsService(db, geo, logger),
		Drive:          resolver,
		CDN:            uploader,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		DriveFolderID:  cfg.DriveFolderID,
	})

	router := api.NewRouter(h, api.RouterConfig{
		CORSOrigins:      cfg.CORSOrigins,
		IsDevelopment:    cfg.IsDevelopment(),
		RequestTimeout:   cfg.RequestTimeout,
		LoginPerMinute:   cfg.LoginRateLimit,
		ContactPerMinute: cfg.ContactRateLimit,
		TrackPerMinute:   cfg.TrackRateLimit,
		APIRatePerSecond: cfg.APIRateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Minute, // Large video uploads
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Current().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openStore opens the configured document store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Database, error) {
	switch cfg.Store {
	case config.StoreMongo:
		db, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoName, logger)
		if err != nil {
			return nil, fmt.Errorf("opening mongodb: %w", err)
		}
		return db, nil
	default:
		slog.Info("initializing database", "path", cfg.DBPath)
		db, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return db, nil
	}
}
