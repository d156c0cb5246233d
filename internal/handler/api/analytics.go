// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/util"
)

// TrackRequest is the body of POST /api/analytics/track.
type TrackRequest struct {
	Page     string `json:"page"`
	Referrer string `json:"referrer"`
}

// TrackResponse reports whether a visit was stored.
type TrackResponse struct {
	Status string `json:"status"`
}

// RealtimeResponse is the number of visitors in the active window.
type RealtimeResponse struct {
	ActiveNow int64 `json:"activeNow"`
}

// Track handles POST /api/analytics/track. It always answers 200 so the
// site never surfaces tracking failures to visitors.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		h.Logger.Debug("visit payload rejected", "category", "analytics", "error", err)
		WriteOK(w, TrackResponse{Status: "error"})
		return
	}

	err := h.Analytics.Record(r.Context(), service.Visit{
		Page:      req.Page,
		Referrer:  req.Referrer,
		UserAgent: r.UserAgent(),
		IP:        util.ClientIP(r),
	})
	if err != nil {
		WriteOK(w, TrackResponse{Status: "error"})
		return
	}
	WriteOK(w, TrackResponse{Status: "tracked"})
}

// Stats handles GET /api/analytics/stats?hours=N.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	hours, err := queryInt(r, "hours", service.DefaultStatsHours)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	WriteOK(w, h.Analytics.Stats(r.Context(), int(hours)))
}

// Realtime handles GET /api/analytics/realtime.
func (h *Handler) Realtime(w http.ResponseWriter, r *http.Request) {
	WriteOK(w, RealtimeResponse{ActiveNow: h.Analytics.ActiveNow(r.Context())})
}
