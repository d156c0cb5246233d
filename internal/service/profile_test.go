// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/testutil"
	"github.com/olegiv/folio-go/internal/validation"
)

func TestProfileGetDefault(t *testing.T) {
	svc := NewProfileService(testutil.TestStore(t), testutil.TestLoggerSilent())

	p, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, p.FullName)
	assert.NotEmpty(t, p.Tagline)
	assert.NotEmpty(t, p.Bio)
	assert.NotEmpty(t, p.BioHTML)
	assert.NotNil(t, p.Skills)
	assert.NotNil(t, p.Brands)
	assert.NotNil(t, p.Software)
	assert.False(t, p.CreatedAt.IsZero())
	require.NoError(t, validation.Struct(&p))
}

func TestProfileGetDegradesOnlyForMissing(t *testing.T) {
	svc := NewProfileService(failingDB{}, testutil.TestLoggerSilent())

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestProfileCreateConflict(t *testing.T) {
	svc := NewProfileService(testutil.TestStore(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	p := model.Profile{FullName: "Ana", Tagline: "Photographer", Bio: "Shoots *film*."}
	created, err := svc.Create(ctx, p)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.BioHTML, "<em>film</em>")

	_, err = svc.Create(ctx, p)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.ErrorIs(t, err, ErrProfileExists)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ana", got.FullName)
}

func TestProfileCreateValidation(t *testing.T) {
	svc := NewProfileService(testutil.TestStore(t), testutil.TestLoggerSilent())

	_, err := svc.Create(context.Background(), model.Profile{FullName: "Ana"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "bio")
}

func TestProfileUpdateKeepsEmptyStrings(t *testing.T) {
	svc := NewProfileService(testutil.TestStore(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.Profile{
		FullName:        "Ana",
		Tagline:         "Photographer",
		Bio:             "Bio",
		Experience:      "5 years",
		SocialInstagram: "https://instagram.com/ana",
		Skills:          []string{"Portraits"},
	})
	require.NoError(t, err)

	var patch model.ProfilePatch
	require.NoError(t, json.Unmarshal([]byte(`{"social_instagram":"","tagline":"Filmmaker","skills":null}`), &patch))

	updated, err := svc.Update(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, "", updated.SocialInstagram)
	assert.Equal(t, "Filmmaker", updated.Tagline)
	assert.Equal(t, "5 years", updated.Experience, "absent fields keep their value")
	assert.Equal(t, "Ana", updated.FullName)
	assert.Empty(t, updated.Skills)
}

func TestProfileUpdateUpserts(t *testing.T) {
	svc := NewProfileService(testutil.TestStore(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	var patch model.ProfilePatch
	require.NoError(t, json.Unmarshal([]byte(`{"full_name":"Ana","bio":"Hello","brands":["Acme"],
		"profile_image":"https://drive.google.com/file/d/prof1D/view"}`), &patch))

	created, err := svc.Update(ctx, patch)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.FullName)
	assert.Equal(t, []string{"Acme"}, created.Brands)
	assert.Equal(t, "prof1D", created.ProfileDriveID)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Hello", got.Bio)
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := renderMarkdown("Hi <script>alert(1)</script> **there**")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<strong>there</strong>")
	assert.Equal(t, "", renderMarkdown("   "))
}
