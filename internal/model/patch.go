// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/olegiv/folio-go/internal/drive"

// Patch types use pointer fields: nil means the field was absent from the
// request, anything else (including "", false and 0) is written.

// ProjectPatchBase holds the patchable fields shared by every project.
type ProjectPatchBase struct {
	Title        *string   `json:"title" validate:"omitnil,min=1,max=200"`
	Description  *string   `json:"description" validate:"omitnil,min=1"`
	Category     *string   `json:"category" validate:"omitnil,max=100"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	DriveFileID  *string   `json:"drive_file_id"`
	Tags         *[]string `json:"tags"`
	Published    *bool     `json:"published"`
	Order        *int      `json:"order"`
}

func (p *ProjectPatchBase) changes() map[string]any {
	m := map[string]any{}
	setIf(m, "title", p.Title)
	setIf(m, "description", p.Description)
	setIf(m, "category", p.Category)
	if p.ThumbnailURL != nil {
		b := ProjectBase{ThumbnailURL: *p.ThumbnailURL}
		b.normalizeThumbnail()
		m["thumbnail_url"] = b.ThumbnailURL
	}
	setIf(m, "drive_file_id", p.DriveFileID)
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []string{}
		}
		m["tags"] = tags
	}
	setIf(m, "published", p.Published)
	setIf(m, "order", p.Order)
	return m
}

func setIf[T any](m map[string]any, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

// setMedia writes a normalized media value and, for Drive links, its file
// ID under idKey unless the patch sets idKey explicitly.
func setMedia(m map[string]any, key, idKey string, v *string) {
	if v == nil {
		return
	}
	s := *v
	id := normalizeMedia(&s)
	m[key] = s
	if _, explicit := m[idKey]; id != "" && !explicit {
		m[idKey] = id
	}
}

// PhotoPatch is a partial update for a PhotoProject.
type PhotoPatch struct {
	ProjectPatchBase
	ImageURL *string `json:"image_url"`
}

// Changes implements ProjectPatch.
func (p PhotoPatch) Changes() map[string]any {
	m := p.changes()
	setMedia(m, "image_url", "drive_file_id", p.ImageURL)
	return m
}

// SetsFeatured implements ProjectPatch.
func (PhotoPatch) SetsFeatured() bool { return false }

// VideoPatch is a partial update for a VideoProject.
type VideoPatch struct {
	ProjectPatchBase
	VideoType *string `json:"video_type" validate:"omitnil,oneof=youtube vimeo gdrive mp4"`
	VideoURL  *string `json:"video_url" validate:"omitnil,min=1"`
}

// Changes implements ProjectPatch.
func (p VideoPatch) Changes() map[string]any {
	m := p.changes()
	setIf(m, "video_type", p.VideoType)
	setMedia(m, "video_url", "drive_file_id", p.VideoURL)
	if p.VideoURL != nil && drive.NormalizeRef(*p.VideoURL).FileID != "" {
		m["video_type"] = VideoTypeDrive
	}
	return m
}

// SetsFeatured implements ProjectPatch.
func (VideoPatch) SetsFeatured() bool { return false }

// EditPatch is a partial update for an EditProject.
type EditPatch struct {
	ProjectPatchBase
	VideoURL      *string `json:"video_url" validate:"omitnil,min=1"`
	BeforeURL     *string `json:"before_url"`
	AfterURL      *string `json:"after_url"`
	BeforeDriveID *string `json:"before_drive_id"`
	AfterDriveID  *string `json:"after_drive_id"`
	IsFeatured    *bool   `json:"is_featured"`
}

// Changes implements ProjectPatch.
func (p EditPatch) Changes() map[string]any {
	m := p.changes()
	setIf(m, "before_drive_id", p.BeforeDriveID)
	setIf(m, "after_drive_id", p.AfterDriveID)
	setMedia(m, "video_url", "drive_file_id", p.VideoURL)
	setMedia(m, "before_url", "before_drive_id", p.BeforeURL)
	setMedia(m, "after_url", "after_drive_id", p.AfterURL)
	setIf(m, "is_featured", p.IsFeatured)
	return m
}

// SetsFeatured implements ProjectPatch.
func (p EditPatch) SetsFeatured() bool {
	return p.IsFeatured != nil && *p.IsFeatured
}
