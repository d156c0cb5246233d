// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
)

// ProjectHandler serves one project collection. Patch is the partial update
// type decoded for PUT requests.
type ProjectHandler[T any, P interface {
	*T
	model.Project
}, Patch model.ProjectPatch] struct {
	h      *Handler
	svc    *service.ProjectService[T, P]
	entity string
}

// CategoriesResponse lists the distinct categories of a collection.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// PhotoHandler returns the handler for /api/photos.
func (h *Handler) PhotoHandler() *ProjectHandler[model.PhotoProject, *model.PhotoProject, model.PhotoPatch] {
	return &ProjectHandler[model.PhotoProject, *model.PhotoProject, model.PhotoPatch]{h: h, svc: h.Photos, entity: "Photo"}
}

// VideoHandler returns the handler for /api/videos.
func (h *Handler) VideoHandler() *ProjectHandler[model.VideoProject, *model.VideoProject, model.VideoPatch] {
	return &ProjectHandler[model.VideoProject, *model.VideoProject, model.VideoPatch]{h: h, svc: h.Videos, entity: "Video"}
}

// EditHandler returns the handler for /api/edits.
func (h *Handler) EditHandler() *ProjectHandler[model.EditProject, *model.EditProject, model.EditPatch] {
	return &ProjectHandler[model.EditProject, *model.EditProject, model.EditPatch]{h: h, svc: h.Edits, entity: "Edit"}
}

// listParams reads published_only, category, skip and limit.
func listParams(r *http.Request) (service.ListParams, error) {
	params := service.DefaultListParams()
	var err error
	if params.PublishedOnly, err = queryBool(r, "published_only", params.PublishedOnly); err != nil {
		return params, err
	}
	if params.Skip, err = queryInt(r, "skip", 0); err != nil {
		return params, err
	}
	if params.Limit, err = queryInt(r, "limit", params.Limit); err != nil {
		return params, err
	}
	params.Category = r.URL.Query().Get("category")
	return params, nil
}

// List handles GET /api/{kind}.
func (ph *ProjectHandler[T, P, Patch]) List(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	items, err := ph.svc.List(r.Context(), params)
	if err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteOK(w, items)
}

// Categories handles GET /api/{kind}/categories.
func (ph *ProjectHandler[T, P, Patch]) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := ph.svc.Categories(r.Context())
	if err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteOK(w, CategoriesResponse{Categories: cats})
}

// Featured handles GET /api/edits/featured.
func (ph *ProjectHandler[T, P, Patch]) Featured(w http.ResponseWriter, r *http.Request) {
	item, err := ph.svc.Featured(r.Context())
	if errors.Is(err, model.ErrNotFound) {
		WriteNotFound(w, "No Featured "+ph.entity+" Found")
		return
	}
	if err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteOK(w, item)
}

// Get handles GET /api/{kind}/{id}.
func (ph *ProjectHandler[T, P, Patch]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := ph.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteOK(w, item)
}

// Create handles POST /api/{kind}. Projects are published unless the
// payload says otherwise.
func (ph *ProjectHandler[T, P, Patch]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	P(&item).Base().Published = true
	if !decodeJSON(w, r, &item) {
		return
	}

	created, err := ph.svc.Create(r.Context(), item)
	if err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteCreated(w, created)
}

// Update handles PUT /api/{kind}/{id}.
func (ph *ProjectHandler[T, P, Patch]) Update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := ph.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteOK(w, updated)
}

// Delete handles DELETE /api/{kind}/{id}.
func (ph *ProjectHandler[T, P, Patch]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := ph.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, ph.h.Logger, err, ph.entity)
		return
	}
	WriteMessage(w, ph.entity+" Deleted Successfully")
}
