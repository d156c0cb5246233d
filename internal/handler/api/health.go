// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/olegiv/folio-go/internal/version"
)

// healthCheckTimeout bounds the store ping made by Health.
const healthCheckTimeout = 2 * time.Second

// BannerResponse is served at the root path.
type BannerResponse struct {
	Message string       `json:"message"`
	Version string       `json:"version"`
	Status  string       `json:"status"`
	Build   version.Info `json:"build"`
}

// HealthResponse reports liveness and the store state.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	// Backend names the store implementation.
	Backend string `json:"backend"`
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	info := version.Current()
	WriteOK(w, BannerResponse{
		Message: "Folio Portfolio API",
		Version: info.Version,
		Status:  "active",
		Build:   info,
	})
}

// Health handles GET /api/health. The process is reported healthy even when
// the store is unreachable; the store field carries that detail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Store: "ok", Backend: h.DB.Backend()}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		h.Logger.Warn("store health check failed", "category", "store", "error", err)
		resp.Store = "unavailable"
	}
	WriteOK(w, resp)
}
