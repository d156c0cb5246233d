// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/folio-go/internal/model"
)

// GetProfile handles GET /api/profile. A default profile is served when
// none has been stored.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.Get(r.Context())
	if err != nil {
		WriteServiceError(w, h.Logger, err, "Profile")
		return
	}
	WriteOK(w, p)
}

// CreateProfile handles POST /api/profile.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var p model.Profile
	if !decodeJSON(w, r, &p) {
		return
	}

	created, err := h.Profiles.Create(r.Context(), p)
	if err != nil {
		WriteServiceError(w, h.Logger, err, "Profile")
		return
	}
	WriteCreated(w, created)
}

// UpdateProfile handles PUT /api/profile. Every field present in the body
// is written; a missing profile is created.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch model.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.Profiles.Update(r.Context(), patch)
	if err != nil {
		WriteServiceError(w, h.Logger, err, "Profile")
		return
	}
	WriteOK(w, updated)
}
