// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cdn

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryBackend uploads through the Cloudinary upload API.
type CloudinaryBackend struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinary creates a backend from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string) (*CloudinaryBackend, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryBackend{cld: cld}, nil
}

// Upload implements Backend.
func (b *CloudinaryBackend) Upload(ctx context.Context, r io.Reader, params UploadParams) (UploadResult, error) {
	res, err := b.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       params.Folder,
		PublicID:     params.PublicID,
		ResourceType: params.ResourceType,
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return UploadResult{}, err
	}
	// API-level failures come back in the body with a nil error.
	if res.Error.Message != "" {
		return UploadResult{}, errors.New(res.Error.Message)
	}
	return UploadResult{SecureURL: res.SecureURL, PublicID: res.PublicID}, nil
}
