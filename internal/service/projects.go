// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/validation"
)

// Listing limits.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ListParams filters and pages a project listing.
type ListParams struct {
	PublishedOnly bool
	Category      string
	Skip          int64
	Limit         int64
}

// DefaultListParams returns the listing used when a client sends no parameters.
func DefaultListParams() ListParams {
	return ListParams{PublishedOnly: true, Limit: DefaultListLimit}
}

func (p ListParams) normalize() (ListParams, error) {
	if p.Skip < 0 || p.Limit < 0 {
		return p, fmt.Errorf("%w: skip and limit must not be negative", model.ErrInvalidInput)
	}
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
	p.Limit = min(p.Limit, MaxListLimit)
	return p, nil
}

// featurer is implemented by project variants that take part in the
// single-featured rule.
type featurer interface {
	Featured() bool
}

// ProjectService manages one collection of media projects. T is the project
// struct and P its pointer type.
type ProjectService[T any, P interface {
	*T
	model.Project
}] struct {
	coll   store.Collection
	kind   string
	logger *slog.Logger
}

// Concrete project services.
type (
	PhotoService = ProjectService[model.PhotoProject, *model.PhotoProject]
	VideoService = ProjectService[model.VideoProject, *model.VideoProject]
	EditService  = ProjectService[model.EditProject, *model.EditProject]
)

// NewPhotoService creates the photo project service.
func NewPhotoService(db store.Database, logger *slog.Logger) *PhotoService {
	return &PhotoService{coll: db.Collection(store.PhotoProjects), kind: "photo", logger: logger}
}

// NewVideoService creates the video project service.
func NewVideoService(db store.Database, logger *slog.Logger) *VideoService {
	return &VideoService{coll: db.Collection(store.VideoProjects), kind: "video", logger: logger}
}

// NewEditService creates the edit project service.
func NewEditService(db store.Database, logger *slog.Logger) *EditService {
	return &EditService{coll: db.Collection(store.EditProjects), kind: "edit", logger: logger}
}

// Kind names the project variant ("photo", "video" or "edit").
func (s *ProjectService[T, P]) Kind() string { return s.kind }

func byID(id string) store.Filter {
	return store.Filter{store.Eq(store.FieldID, id)}
}

// List returns projects ordered by their order field.
func (s *ProjectService[T, P]) List(ctx context.Context, params ListParams) ([]T, error) {
	params, err := params.normalize()
	if err != nil {
		return nil, err
	}

	var filter store.Filter
	if params.PublishedOnly {
		filter = append(filter, store.Eq("published", true))
	}
	if params.Category != "" {
		filter = append(filter, store.Eq("category", params.Category))
	}

	items := []T{}
	err = s.coll.Find(ctx, store.Query{
		Filter: filter,
		Sort:   []store.Sort{{Field: "order"}},
		Skip:   params.Skip,
		Limit:  params.Limit,
	}, &items)
	if err != nil {
		return nil, storeError("list "+s.kind+" projects", err)
	}

	for i := range items {
		P(&items[i]).Resolve()
	}
	return items, nil
}

// Get returns one project.
func (s *ProjectService[T, P]) Get(ctx context.Context, id string) (T, error) {
	var item T
	key, err := store.ParseID(id)
	if err != nil {
		return item, err
	}
	if err := s.coll.FindOne(ctx, store.Query{Filter: byID(key)}, &item); err != nil {
		if errors.Is(err, store.ErrNoDocuments) {
			return item, fmt.Errorf("%s %s: %w", s.kind, key, model.ErrNotFound)
		}
		return item, storeError("get "+s.kind+" project", err)
	}
	P(&item).Resolve()
	return item, nil
}

// Create validates, normalizes and stores a new project.
//
// For a featured edit every other featured edit is unset before the insert.
// The two writes are not atomic: concurrent admin writes can briefly leave
// zero or two featured edits.
func (s *ProjectService[T, P]) Create(ctx context.Context, item T) (T, error) {
	p := P(&item)
	if err := validation.Struct(p); err != nil {
		return item, err
	}

	p.Normalize()
	now := timeNow()
	b := p.Base()
	b.ID = store.NewID()
	b.CreatedAt = now
	b.UpdatedAt = now

	if f, ok := any(p).(featurer); ok && f.Featured() {
		if err := s.unsetFeatured(ctx, ""); err != nil {
			return item, err
		}
	}

	if err := s.coll.Insert(ctx, b.ID, p); err != nil {
		return item, storeError("create "+s.kind+" project", err)
	}
	s.logger.Info("project created", "kind", s.kind, "id", b.ID)

	p.Resolve()
	return item, nil
}

// Update merges the fields set in patch into the project and returns the
// stored result.
func (s *ProjectService[T, P]) Update(ctx context.Context, id string, patch model.ProjectPatch) (T, error) {
	var zero T
	key, err := store.ParseID(id)
	if err != nil {
		return zero, err
	}
	if err := validation.Struct(patch); err != nil {
		return zero, err
	}

	if patch.SetsFeatured() {
		n, err := s.coll.Count(ctx, byID(key))
		if err != nil {
			return zero, storeError("update "+s.kind+" project", err)
		}
		if n == 0 {
			return zero, fmt.Errorf("%s %s: %w", s.kind, key, model.ErrNotFound)
		}
		if err := s.unsetFeatured(ctx, key); err != nil {
			return zero, err
		}
	}

	changes := patch.Changes()
	changes["updated_at"] = timeNow()

	n, err := s.coll.UpdateOne(ctx, byID(key), changes)
	if err != nil {
		return zero, storeError("update "+s.kind+" project", err)
	}
	if n == 0 {
		return zero, fmt.Errorf("%s %s: %w", s.kind, key, model.ErrNotFound)
	}
	s.logger.Info("project updated", "kind", s.kind, "id", key)

	return s.Get(ctx, key)
}

// unsetFeatured clears is_featured on every document except exceptID.
func (s *ProjectService[T, P]) unsetFeatured(ctx context.Context, exceptID string) error {
	filter := store.Filter{store.Eq("is_featured", true)}
	if exceptID != "" {
		filter = append(filter, store.Ne(store.FieldID, exceptID))
	}
	if _, err := s.coll.UpdateMany(ctx, filter, map[string]any{"is_featured": false}); err != nil {
		return storeError("unset featured "+s.kind, err)
	}
	return nil
}

// Delete removes a project.
func (s *ProjectService[T, P]) Delete(ctx context.Context, id string) error {
	key, err := store.ParseID(id)
	if err != nil {
		return err
	}
	n, err := s.coll.DeleteOne(ctx, byID(key))
	if err != nil {
		return storeError("delete "+s.kind+" project", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", s.kind, key, model.ErrNotFound)
	}
	s.logger.Info("project deleted", "kind", s.kind, "id", key)
	return nil
}

// Categories returns the distinct non-empty categories in use.
func (s *ProjectService[T, P]) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.coll.Distinct(ctx, "category", nil)
	if err != nil {
		return nil, storeError("list "+s.kind+" categories", err)
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// Featured returns the featured published project, falling back to the
// first published project by order.
func (s *ProjectService[T, P]) Featured(ctx context.Context) (T, error) {
	var item T
	queries := []store.Query{
		{Filter: store.Filter{store.Eq("is_featured", true), store.Eq("published", true)}},
		{Filter: store.Filter{store.Eq("published", true)}, Sort: []store.Sort{{Field: "order"}}},
	}
	for _, q := range queries {
		err := s.coll.FindOne(ctx, q, &item)
		if err == nil {
			P(&item).Resolve()
			return item, nil
		}
		if !errors.Is(err, store.ErrNoDocuments) {
			return item, storeError("get featured "+s.kind, err)
		}
	}
	return item, fmt.Errorf("featured %s: %w", s.kind, model.ErrNotFound)
}
