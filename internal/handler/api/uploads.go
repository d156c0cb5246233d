// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
)

// uploadedFile is the "file" part of a multipart upload.
type uploadedFile struct {
	multipart.File
	name        string
	contentType string
}

// formFile parses a multipart body bounded by MaxUploadBytes and returns its
// "file" part. On failure a response has been written.
func (h *Handler) formFile(w http.ResponseWriter, r *http.Request) (*uploadedFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteAPIError(w, http.StatusRequestEntityTooLarge, middleware.CodePayloadTooLarge,
				fmt.Sprintf("File Too Large. Max Size: %d Bytes", tooLarge.Limit), nil)
			return nil, false
		}
		WriteBadRequest(w, "Failed To Parse Multipart Form", nil)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "No File Provided. Use The 'file' Field", nil)
		return nil, false
	}

	contentType := header.Header.Get("Content-Type")
	return &uploadedFile{File: file, name: header.Filename, contentType: contentType}, true
}

type uploadFunc func(ctx context.Context, r io.Reader, filename, contentType, folder string) (model.Upload, error)

// upload runs a CDN upload for the request's file and answers {key: url}.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request, fn uploadFunc, folder, key string) {
	if !h.CDN.Configured() {
		WriteUnavailable(w, "Media Uploads Are Not Configured")
		return
	}

	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	res, err := fn(r.Context(), file, file.name, file.contentType, folder)
	if err != nil {
		WriteServiceError(w, h.Logger, err, "Upload")
		return
	}
	WriteOK(w, map[string]string{key: res.URL})
}

// UploadProfileImage handles POST /api/profile/upload-image.
func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.CDN.UploadImage, model.FolderProfileImages, "profile_image")
}

// UploadPhotoImage handles POST /api/photos/upload-image.
func (h *Handler) UploadPhotoImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.CDN.UploadImage, model.FolderPhotoImages, "image_url")
}

// UploadVideoFile handles POST /api/videos/upload-video.
func (h *Handler) UploadVideoFile(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.CDN.UploadVideo, model.FolderVideoFiles, "video_url")
}

// UploadVideoThumbnail handles POST /api/videos/upload-thumbnail.
func (h *Handler) UploadVideoThumbnail(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.CDN.UploadImage, model.FolderVideoThumbnails, "thumbnail_url")
}

// UploadEditVideo handles POST /api/edits/upload-video.
func (h *Handler) UploadEditVideo(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, h.CDN.UploadVideo, model.FolderEditVideos, "video_url")
}
