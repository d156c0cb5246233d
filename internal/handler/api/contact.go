// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/validation"
)

// ContactRequest is the body of POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactCreatedResponse acknowledges a submitted message.
type ContactCreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// CreateContact handles POST /api/contact.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Contact.Create(r.Context(), model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			WriteValidationError(w, verr.Fields)
			return
		}
		h.Logger.Error("failed to create contact message", "error", err)
		WriteInternalError(w, "Failed To Send Message")
		return
	}
	WriteOK(w, ContactCreatedResponse{Message: "Message Sent Successfully", ID: msg.ID})
}

// ListContact handles GET /api/contact.
func (h *Handler) ListContact(w http.ResponseWriter, r *http.Request) {
	readOnly, err := queryBool(r, "read_only", false)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultListLimit)
	if err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	msgs, err := h.Contact.List(r.Context(), readOnly, skip, limit)
	if err != nil {
		WriteServiceError(w, h.Logger, err, "Message")
		return
	}
	WriteOK(w, msgs)
}

// GetContact handles GET /api/contact/{id}.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Contact.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteServiceError(w, h.Logger, err, "Message")
		return
	}
	WriteOK(w, msg)
}

// MarkContactRead handles PUT /api/contact/{id}/read.
func (h *Handler) MarkContactRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Contact.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, h.Logger, err, "Message")
		return
	}
	WriteMessage(w, "Message Marked As Read")
}

// DeleteContact handles DELETE /api/contact/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.Contact.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteServiceError(w, h.Logger, err, "Message")
		return
	}
	WriteMessage(w, "Message Deleted Successfully")
}
