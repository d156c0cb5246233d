// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/drive"
)

// FolderFilesResponse is a single page of a Drive folder listing.
type FolderFilesResponse struct {
	Files []drive.FileInfo `json:"files"`
	Count int              `json:"count"`
}

// driveID reads and checks the {id} URL parameter.
func driveID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if got, ok := drive.ExtractFileID(id); !ok || got != id {
		WriteBadRequest(w, "Invalid File ID", nil)
		return "", false
	}
	return id, true
}

// DriveURLs handles GET /api/media/drive/{id}.
func (h *Handler) DriveURLs(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	WriteOK(w, drive.MediaURLs(id))
}

// DriveThumbnail handles GET /api/media/drive/{id}/thumbnail?size=N.
func (h *Handler) DriveThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	size, err := queryInt(r, "size", drive.DefaultThumbnailSize)
	if err != nil || size <= 0 {
		WriteBadRequest(w, "size must be a positive integer", nil)
		return
	}
	WriteOK(w, map[string]string{"thumbnail_url": drive.ThumbnailURL(id, int(size))})
}

// DriveDirect handles GET /api/media/drive/{id}/direct.
func (h *Handler) DriveDirect(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	WriteOK(w, map[string]string{"direct_url": drive.DirectURL(id)})
}

// DriveEmbed handles GET /api/media/drive/{id}/embed.
func (h *Handler) DriveEmbed(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	WriteOK(w, map[string]string{"embed_url": drive.EmbedURL(id)})
}

// DriveInfo handles GET /api/media/drive/{id}/info.
func (h *Handler) DriveInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	info, err := h.Drive.FileInfo(r.Context(), id)
	if err != nil {
		WriteServiceError(w, h.Logger, err, "File")
		return
	}
	WriteOK(w, info)
}

// ExtractDriveID handles POST /api/media/drive/extract-id?url=...
func (h *Handler) ExtractDriveID(w http.ResponseWriter, r *http.Request) {
	id, ok := drive.ExtractFileID(strings.TrimSpace(r.URL.Query().Get("url")))
	if !ok {
		WriteBadRequest(w, "Could Not Extract File ID From URL", nil)
		return
	}
	WriteOK(w, map[string]string{"file_id": id})
}

// DriveFolderFiles handles GET /api/media/drive/folder/{id}/files?page_size=N.
// Provider failures degrade to an empty listing.
func (h *Handler) DriveFolderFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	pageSize, err := queryInt(r, "page_size", drive.DefaultPageSize)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	files := h.Drive.ListFolder(r.Context(), id, int(pageSize))
	WriteOK(w, FolderFilesResponse{Files: files, Count: len(files)})
}

// DriveUpload handles POST /api/media/drive/upload (multipart field "file",
// optional "folder_id").
func (h *Handler) DriveUpload(w http.ResponseWriter, r *http.Request) {
	file, ok := h.formFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	folderID := strings.TrimSpace(r.FormValue("folder_id"))
	if folderID == "" {
		folderID = h.DriveFolderID
	}

	info, err := h.Drive.Upload(r.Context(), file.name, file.contentType, folderID, file)
	if err != nil {
		WriteServiceError(w, h.Logger, err, "File")
		return
	}
	WriteCreated(w, info)
}

// DriveDelete handles DELETE /api/media/drive/{id}.
func (h *Handler) DriveDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := driveID(w, r)
	if !ok {
		return
	}
	if err := h.Drive.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, h.Logger, err, "File")
		return
	}
	WriteMessage(w, "File Deleted Successfully")
}
