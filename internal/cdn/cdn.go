// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cdn uploads portfolio media to the CDN. Images are prepared by
// internal/imaging before upload. Videos are streamed as-is.
package cdn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/olegiv/folio-go/internal/imaging"
	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/util"
)

// Uploader errors.
var (
	ErrNotConfigured   = errors.New("cdn is not configured")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Resource types understood by the backend.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// UploadParams describes one upload.
type UploadParams struct {
	Folder       string
	PublicID     string
	ResourceType string
}

// UploadResult is what the backend reports for a stored asset.
type UploadResult struct {
	SecureURL string
	PublicID  string
}

// Backend stores assets. CloudinaryBackend is the production implementation.
type Backend interface {
	Upload(ctx context.Context, r io.Reader, params UploadParams) (UploadResult, error)
}

// Uploader validates and uploads media files.
type Uploader struct {
	backend Backend
	images  *imaging.Processor
	logger  *slog.Logger
}

// NewUploader creates an uploader. A nil backend makes every upload fail
// with ErrNotConfigured.
func NewUploader(backend Backend, images *imaging.Processor, logger *slog.Logger) *Uploader {
	return &Uploader{backend: backend, images: images, logger: logger}
}

// Configured reports whether a backend is available.
func (u *Uploader) Configured() bool {
	return u.backend != nil
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
}

// UploadImage prepares and uploads an image into folder.
func (u *Uploader) UploadImage(ctx context.Context, r io.Reader, filename, contentType, folder string) (model.Upload, error) {
	if u.backend == nil {
		return model.Upload{}, ErrNotConfigured
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return model.Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	prepared, err := u.images.Prepare(r)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return model.Upload{}, fmt.Errorf("%w: %w", ErrUnsupportedType, err)
		}
		return model.Upload{}, fmt.Errorf("prepare image: %w", err)
	}

	return u.upload(ctx, bytes.NewReader(prepared.Data), filename, folder, ResourceImage)
}

// UploadVideo uploads a video into folder. The type is checked by content
// type, falling back to the file extension.
func (u *Uploader) UploadVideo(ctx context.Context, r io.Reader, filename, contentType, folder string) (model.Upload, error) {
	if u.backend == nil {
		return model.Upload{}, ErrNotConfigured
	}
	if !model.IsVideoMime(contentType) && !videoExtensions[strings.ToLower(filepath.Ext(filename))] {
		return model.Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}

	return u.upload(ctx, r, filename, folder, ResourceVideo)
}

func (u *Uploader) upload(ctx context.Context, r io.Reader, filename, folder, resourceType string) (model.Upload, error) {
	name, err := util.SanitizeFilename(filename)
	if err != nil {
		name = resourceType
	}

	res, err := u.backend.Upload(ctx, r, UploadParams{
		Folder:       folder,
		PublicID:     util.UploadID(name),
		ResourceType: resourceType,
	})
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("cloudinary", "upload_"+resourceType, "failure").Inc()
		u.logger.Warn("cloudinary upload failed", "folder", folder, "error", err)
		return model.Upload{}, fmt.Errorf("upload %s: %w", resourceType, err)
	}
	metrics.ProviderCalls.WithLabelValues("cloudinary", "upload_"+resourceType, "success").Inc()

	u.logger.Info("media uploaded", "folder", folder, "public_id", res.PublicID)
	return model.Upload{URL: res.SecureURL, PublicID: res.PublicID, Name: name}, nil
}
