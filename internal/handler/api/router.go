// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
)

// RouterConfig holds the transport settings of NewRouter.
type RouterConfig struct {
	CORSOrigins    []string
	IsDevelopment  bool
	RequestTimeout time.Duration

	// Per-IP requests per minute. Zero disables a limit.
	LoginPerMinute   int
	ContactPerMinute int
	TrackPerMinute   int
	// Requests per second per client across /api. Zero disables it.
	APIRatePerSecond float64
}

// NewRouter wires every route of the API.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	secHeaders := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)
	secHeaders.ExcludePaths = []string{"/metrics"}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(secHeaders))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed", nil)
	})

	r.Get("/", h.Root)
	r.Handle("/metrics", promhttp.Handler())

	admin := middleware.AdminAuth(h.Verifier)
	burst := max(int(cfg.APIRatePerSecond*2), 1)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewGlobalRateLimiter(cfg.APIRatePerSecond, burst).Middleware())

		// Multipart uploads may outlive the request timeout.
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/profile/upload-image", h.UploadProfileImage)
			r.Post("/photos/upload-image", h.UploadPhotoImage)
			r.Post("/videos/upload-video", h.UploadVideoFile)
			r.Post("/videos/upload-thumbnail", h.UploadVideoThumbnail)
			r.Post("/edits/upload-video", h.UploadEditVideo)
			r.Post("/media/drive/upload", h.DriveUpload)
		})

		r.Group(func(r chi.Router) {
			if cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(cfg.RequestTimeout))
			}

			r.Get("/health", h.Health)

			r.With(middleware.PerIPLimit("login", cfg.LoginPerMinute, time.Minute)).Post("/auth/login", h.Login)
			r.With(admin).Get("/auth/verify", h.Verify)

			r.Get("/profile", h.GetProfile)
			r.With(admin).Post("/profile", h.CreateProfile)
			r.With(admin).Put("/profile", h.UpdateProfile)

			mountProjects(r, admin, "/photos", h.PhotoHandler())
			mountProjects(r, admin, "/videos", h.VideoHandler())
			edits := h.EditHandler()
			r.Get("/edits/featured", edits.Featured)
			mountProjects(r, admin, "/edits", edits)

			r.With(middleware.PerIPLimit("contact", cfg.ContactPerMinute, time.Minute)).Post("/contact", h.CreateContact)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Get("/contact", h.ListContact)
				r.Get("/contact/{id}", h.GetContact)
				r.Put("/contact/{id}/read", h.MarkContactRead)
				r.Delete("/contact/{id}", h.DeleteContact)
			})

			r.With(middleware.PerIPLimit("track", cfg.TrackPerMinute, time.Minute)).Post("/analytics/track", h.Track)
			r.Get("/analytics/stats", h.Stats)
			r.Get("/analytics/realtime", h.Realtime)

			r.Post("/media/drive/extract-id", h.ExtractDriveID)
			r.Get("/media/drive/folder/{id}/files", h.DriveFolderFiles)
			r.Get("/media/drive/{id}", h.DriveURLs)
			r.Get("/media/drive/{id}/thumbnail", h.DriveThumbnail)
			r.Get("/media/drive/{id}/direct", h.DriveDirect)
			r.Get("/media/drive/{id}/embed", h.DriveEmbed)
			r.Get("/media/drive/{id}/info", h.DriveInfo)
			r.With(admin).Delete("/media/drive/{id}", h.DriveDelete)
		})
	})

	return r
}

// mountProjects registers the CRUD routes of one project collection.
func mountProjects[T any, P interface {
	*T
	model.Project
}, Patch model.ProjectPatch](r chi.Router, admin func(http.Handler) http.Handler, prefix string, ph *ProjectHandler[T, P, Patch]) {
	r.Get(prefix, ph.List)
	r.Get(prefix+"/categories", ph.Categories)
	r.Get(prefix+"/{id}", ph.Get)
	r.With(admin).Post(prefix, ph.Create)
	r.With(admin).Put(prefix+"/{id}", ph.Update)
	r.With(admin).Delete(prefix+"/{id}", ph.Delete)
}
