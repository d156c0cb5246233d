// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/validation"
)

// ErrProfileExists is returned by ProfileService.Create when a profile is stored.
var ErrProfileExists = fmt.Errorf("%w: Profile Already Exists. Use PUT To Update.", model.ErrConflict)

// ProfileService manages the single portfolio profile.
type ProfileService struct {
	coll   store.Collection
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(db store.Database, logger *slog.Logger) *ProfileService {
	return &ProfileService{coll: db.Collection(store.Profiles), logger: logger}
}

func (s *ProfileService) find(ctx context.Context) (model.Profile, bool, error) {
	var p model.Profile
	err := s.coll.FindOne(ctx, store.Query{Sort: []store.Sort{{Field: "created_at"}}}, &p)
	if errors.Is(err, store.ErrNoDocuments) {
		return p, false, nil
	}
	if err != nil {
		return p, false, storeError("get profile", err)
	}
	return p, true, nil
}

func present(p model.Profile) model.Profile {
	p.Normalize()
	p.Resolve()
	p.BioHTML = renderMarkdown(p.Bio)
	return p
}

// Get returns the stored profile, or the default profile when none exists.
func (s *ProfileService) Get(ctx context.Context) (model.Profile, error) {
	p, ok, err := s.find(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if !ok {
		return present(model.DefaultProfile(timeNow())), nil
	}
	return present(p), nil
}

// Create stores the first profile. It fails with ErrProfileExists when one
// is already stored.
func (s *ProfileService) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	if err := validation.Struct(&p); err != nil {
		return model.Profile{}, err
	}
	_, ok, err := s.find(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if ok {
		return model.Profile{}, ErrProfileExists
	}

	p.Normalize()
	now := timeNow()
	p.ID = store.NewID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.coll.Insert(ctx, p.ID, &p); err != nil {
		return model.Profile{}, storeError("create profile", err)
	}
	s.logger.Info("profile created", "id", p.ID)
	return present(p), nil
}

// Update writes every field present in patch. When no profile exists the
// patch is stored as a new profile.
func (s *ProfileService) Update(ctx context.Context, patch model.ProfilePatch) (model.Profile, error) {
	if err := validation.Struct(patch); err != nil {
		return model.Profile{}, err
	}
	existing, ok, err := s.find(ctx)
	if err != nil {
		return model.Profile{}, err
	}

	changes := patch.Changes()
	now := timeNow()

	if !ok {
		p, err := profileFromChanges(changes)
		if err != nil {
			return model.Profile{}, err
		}
		p.Normalize()
		p.ID = store.NewID()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.coll.Insert(ctx, p.ID, &p); err != nil {
			return model.Profile{}, storeError("create profile", err)
		}
		s.logger.Info("profile created by update", "id", p.ID)
		return present(p), nil
	}

	changes["updated_at"] = now
	if _, err := s.coll.UpdateOne(ctx, byID(existing.ID), changes); err != nil {
		return model.Profile{}, storeError("update profile", err)
	}
	s.logger.Info("profile updated", "id", existing.ID)

	var updated model.Profile
	if err := s.coll.FindOne(ctx, store.Query{Filter: byID(existing.ID)}, &updated); err != nil {
		return model.Profile{}, storeError("get profile", err)
	}
	return present(updated), nil
}

// profileFromChanges builds a profile from a change set. Change keys are the
// profile's JSON field names.
func profileFromChanges(changes map[string]any) (model.Profile, error) {
	var p model.Profile
	data, err := json.Marshal(changes)
	if err != nil {
		return p, fmt.Errorf("encode profile changes: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode profile changes: %w", err)
	}
	return p, nil
}
