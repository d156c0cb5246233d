// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"regexp"
	"time"

	"github.com/olegiv/folio-go/internal/drive"
)

// Video types
const (
	VideoTypeYouTube = "youtube"
	VideoTypeVimeo   = "vimeo"
	VideoTypeDrive   = "gdrive"
	VideoTypeMP4     = "mp4"
)

// ProjectBase holds the fields shared by every media project.
type ProjectBase struct {
	ID           string    `json:"_id" bson:"_id"`
	Title        string    `json:"title" bson:"title" validate:"required,max=200"`
	Description  string    `json:"description" bson:"description" validate:"required"`
	Category     string    `json:"category" bson:"category" validate:"max=100"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	DriveFileID  string    `json:"drive_file_id,omitempty" bson:"drive_file_id,omitempty"`
	Tags         []string  `json:"tags" bson:"tags"`
	Published    bool      `json:"published" bson:"published"`
	Order        int       `json:"order" bson:"order"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Base returns the shared fields.
func (b *ProjectBase) Base() *ProjectBase { return b }

// Project is implemented by pointers to the project variants.
type Project interface {
	Base() *ProjectBase
	// Normalize canonicalizes media references before the document is stored.
	Normalize()
	// Resolve fills derived URLs from Drive file IDs before the document is served.
	Resolve()
}

// ProjectPatch is a partial update for a project.
type ProjectPatch interface {
	// Changes returns the fields to set, keyed by stored field name.
	// Media references are already normalized.
	Changes() map[string]any
	// SetsFeatured reports whether the patch marks the document featured.
	SetsFeatured() bool
}

func (b *ProjectBase) normalizeThumbnail() {
	if b.ThumbnailURL == "" {
		return
	}
	ref := drive.NormalizeRef(b.ThumbnailURL)
	b.ThumbnailURL = ref.URL
	if ref.FileID != "" {
		b.ThumbnailURL = ref.ThumbnailURL
	}
}

func (b *ProjectBase) prepare() {
	if b.Tags == nil {
		b.Tags = []string{}
	}
}

// normalizeMedia reduces a media field to its canonical URL and returns the
// Drive file ID when the value was a Drive link.
func normalizeMedia(v *string) string {
	ref := drive.NormalizeRef(*v)
	*v = ref.URL
	return ref.FileID
}

// PhotoProject is a photography portfolio entry.
type PhotoProject struct {
	ProjectBase `json:",inline" bson:",inline"`
	ImageURL    string `json:"image_url" bson:"image_url" validate:"required"`
}

// Normalize implements Project.
func (p *PhotoProject) Normalize() {
	p.prepare()
	if id := normalizeMedia(&p.ImageURL); id != "" && p.DriveFileID == "" {
		p.DriveFileID = id
	}
	p.normalizeThumbnail()
}

// Resolve implements Project.
func (p *PhotoProject) Resolve() {
	p.prepare()
	if p.DriveFileID == "" {
		return
	}
	if p.ImageURL == "" {
		p.ImageURL = drive.DirectURL(p.DriveFileID)
	}
	if p.ThumbnailURL == "" {
		p.ThumbnailURL = drive.ThumbnailURL(p.DriveFileID, drive.DefaultThumbnailSize)
	}
}

// VideoProject is a videography portfolio entry.
type VideoProject struct {
	ProjectBase `json:",inline" bson:",inline"`
	VideoType   string `json:"video_type" bson:"video_type" validate:"required,oneof=youtube vimeo gdrive mp4"`
	VideoURL    string `json:"video_url" bson:"video_url" validate:"required"`
	EmbedURL    string `json:"embed_url,omitempty" bson:"-"`
}

// Normalize implements Project.
func (v *VideoProject) Normalize() {
	v.prepare()
	if id := normalizeMedia(&v.VideoURL); id != "" {
		v.VideoType = VideoTypeDrive
		if v.DriveFileID == "" {
			v.DriveFileID = id
		}
	}
	v.normalizeThumbnail()
	v.EmbedURL = ""
}

// Resolve implements Project.
func (v *VideoProject) Resolve() {
	v.prepare()
	if v.DriveFileID != "" {
		if v.VideoURL == "" {
			v.VideoURL = drive.DirectURL(v.DriveFileID)
		}
		if v.ThumbnailURL == "" {
			v.ThumbnailURL = drive.ThumbnailURL(v.DriveFileID, drive.DefaultThumbnailSize)
		}
		if v.VideoType == VideoTypeDrive || v.VideoType == "" {
			v.EmbedURL = drive.EmbedURL(v.DriveFileID)
		}
	}
	if v.EmbedURL == "" {
		v.EmbedURL = embedURLFor(v.VideoType, v.VideoURL)
	}
}

// EditProject is a before/after video editing showcase.
type EditProject struct {
	ProjectBase   `json:",inline" bson:",inline"`
	VideoURL      string `json:"video_url" bson:"video_url" validate:"required"`
	BeforeURL     string `json:"before_url,omitempty" bson:"before_url,omitempty"`
	AfterURL      string `json:"after_url,omitempty" bson:"after_url,omitempty"`
	BeforeDriveID string `json:"before_drive_id,omitempty" bson:"before_drive_id,omitempty"`
	AfterDriveID  string `json:"after_drive_id,omitempty" bson:"after_drive_id,omitempty"`
	IsFeatured    bool   `json:"is_featured" bson:"is_featured"`
}

// Featured reports whether the edit is the featured showcase.
func (e *EditProject) Featured() bool { return e.IsFeatured }

// Normalize implements Project.
func (e *EditProject) Normalize() {
	e.prepare()
	if id := normalizeMedia(&e.VideoURL); id != "" && e.DriveFileID == "" {
		e.DriveFileID = id
	}
	if id := normalizeMedia(&e.BeforeURL); id != "" && e.BeforeDriveID == "" {
		e.BeforeDriveID = id
	}
	if id := normalizeMedia(&e.AfterURL); id != "" && e.AfterDriveID == "" {
		e.AfterDriveID = id
	}
	e.normalizeThumbnail()
}

// Resolve implements Project.
func (e *EditProject) Resolve() {
	e.prepare()
	if e.DriveFileID != "" {
		if e.VideoURL == "" {
			e.VideoURL = drive.DirectURL(e.DriveFileID)
		}
		if e.ThumbnailURL == "" {
			e.ThumbnailURL = drive.ThumbnailURL(e.DriveFileID, drive.DefaultThumbnailSize)
		}
	}
	if e.BeforeURL == "" && e.BeforeDriveID != "" {
		e.BeforeURL = drive.DirectURL(e.BeforeDriveID)
	}
	if e.AfterURL == "" && e.AfterDriveID != "" {
		e.AfterURL = drive.DirectURL(e.AfterDriveID)
	}
}

var (
	youTubeIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/)|youtu\.be/)([a-zA-Z0-9_-]{6,})`)
	vimeoIDPattern   = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
)

// embedURLFor returns the player URL for a hosted video, or "" when the
// host is not recognized.
func embedURLFor(videoType, videoURL string) string {
	switch videoType {
	case VideoTypeYouTube:
		if m := youTubeIDPattern.FindStringSubmatch(videoURL); m != nil {
			return "https://www.youtube.com/embed/" + m[1]
		}
	case VideoTypeVimeo:
		if m := vimeoIDPattern.FindStringSubmatch(videoURL); m != nil {
			return "https://player.vimeo.com/video/" + m[1]
		}
	case VideoTypeMP4:
		return videoURL
	}
	return ""
}
