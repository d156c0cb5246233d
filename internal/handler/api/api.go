// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers of the portfolio API.
//
// Successful responses carry the resource itself. Errors use the envelope
// {"error":{"code","message","details"}} written by middleware.WriteAPIError.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/cdn"
	"github.com/olegiv/folio-go/internal/drive"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/store"
	"github.com/olegiv/folio-go/internal/validation"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// Deps are the collaborators shared by all handlers.
type Deps struct {
	DB        store.Database
	Verifier  *auth.Verifier
	Profiles  *service.ProfileService
	Photos    *service.PhotoService
	Videos    *service.VideoService
	Edits     *service.EditService
	Contact   *service.ContactService
	Analytics *service.AnalyticsService
	Drive     *drive.Resolver
	CDN       *cdn.Uploader
	Logger    *slog.Logger

	// MaxUploadBytes bounds multipart uploads.
	MaxUploadBytes int64
	// DriveFolderID is the default folder for Drive uploads.
	DriveFolderID string
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	Deps
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 200 << 20
	}
	return &Handler{Deps: d}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 JSON response.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteMessage writes a 200 response of the form {"message": msg}.
func WriteMessage(w http.ResponseWriter, msg string) {
	WriteOK(w, map[string]string{"message": msg})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	middleware.WriteAPIError(w, http.StatusBadRequest, middleware.CodeBadRequest, message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusNotFound, middleware.CodeNotFound, message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusUnauthorized, middleware.CodeUnauthorized, message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusInternalServerError, middleware.CodeInternal, message, nil)
}

// WriteUnavailable writes a 503 Service Unavailable response.
func WriteUnavailable(w http.ResponseWriter, message string) {
	middleware.WriteAPIError(w, http.StatusServiceUnavailable, middleware.CodeUnavailable, message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	middleware.WriteAPIError(w, http.StatusUnprocessableEntity, middleware.CodeValidation, "Validation Failed", fieldErrors)
}

// WriteServiceError translates a service, store or provider error into an
// HTTP response. entity names the resource in messages ("Photo", "Message").
func WriteServiceError(w http.ResponseWriter, logger *slog.Logger, err error, entity string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr.Fields)
	case errors.Is(err, model.ErrInvalidID):
		WriteBadRequest(w, "Invalid "+entity+" ID", nil)
	case errors.Is(err, service.ErrProfileExists):
		WriteBadRequest(w, "Profile Already Exists. Use PUT To Update.", nil)
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrConflict):
		WriteBadRequest(w, err.Error(), nil)
	case errors.Is(err, cdn.ErrUnsupportedType):
		WriteBadRequest(w, "Unsupported File Type", nil)
	case errors.Is(err, model.ErrUnauthorized):
		WriteUnauthorized(w, "Could Not Validate Credentials")
	case errors.Is(err, model.ErrNotFound), errors.Is(err, drive.ErrNotFound):
		WriteNotFound(w, entity+" Not Found")
	case errors.Is(err, drive.ErrProviderUnavailable):
		logger.Warn("drive unavailable", "error", err)
		WriteUnavailable(w, "Google Drive Is Unavailable")
	case errors.Is(err, cdn.ErrNotConfigured):
		WriteUnavailable(w, "Media Uploads Are Not Configured")
	default:
		logger.Error("request failed", "entity", entity, "error", err)
		WriteInternalError(w, "Internal Server Error")
	}
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request Body Is Empty", nil)
		case errors.As(err, &typeErr) && typeErr.Field != "":
			WriteBadRequest(w, "Invalid JSON Body", map[string]string{typeErr.Field: "has the wrong type"})
		default:
			WriteBadRequest(w, "Invalid JSON Body", nil)
		}
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", name)
	}
	return v, nil
}
