// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Supported upload MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
	MimeTypeMOV  = "video/quicktime"
)

// CDN upload folders
const (
	FolderProfileImages   = "profile_images"
	FolderPhotoImages     = "photo_images"
	FolderVideoFiles      = "video_files"
	FolderVideoThumbnails = "video_thumbnails"
	FolderEditVideos      = "edit_videos"
)

// Upload is the result of a CDN or Drive upload.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
	FileID   string `json:"file_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

// SupportedImageTypes returns a list of supported image MIME types.
func SupportedImageTypes() []string {
	return []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP}
}

// SupportedVideoTypes returns a list of supported video MIME types.
func SupportedVideoTypes() []string {
	return []string{MimeTypeMP4, MimeTypeWebM, MimeTypeMOV}
}

// IsImageMime reports whether mimeType is an accepted image type.
func IsImageMime(mimeType string) bool {
	return slices.Contains(SupportedImageTypes(), mimeType)
}

// IsVideoMime reports whether mimeType is an accepted video type.
func IsVideoMime(mimeType string) bool {
	return slices.Contains(SupportedVideoTypes(), mimeType)
}
