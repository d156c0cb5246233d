// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/middleware"
	"github.com/olegiv/folio-go/internal/util"
	"github.com/olegiv/folio-go/internal/validation"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned on a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// VerifyResponse is returned by GET /api/auth/verify.
type VerifyResponse struct {
	Email         string `json:"email"`
	Authenticated bool   `json:"authenticated"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return
	}
	if err := validation.Struct(&req); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		WriteServiceError(w, h.Logger, err, "Credentials")
		return
	}

	token, err := h.Verifier.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			h.Logger.Warn("admin login failed", "category", "auth", "ip", util.ClientIP(r))
			WriteUnauthorized(w, "Incorrect Email Or Password")
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		h.Logger.Error("failed to issue token", "category", "auth", "error", err)
		WriteInternalError(w, "Failed To Issue Token")
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.Logger.Info("admin logged in", "category", "auth", "ip", util.ClientIP(r))
	WriteOK(w, TokenResponse{AccessToken: token.AccessToken, TokenType: token.TokenType})
}

// Verify handles GET /api/auth/verify. AdminAuth has already validated the token.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.AdminEmail(r.Context())
	if !ok {
		WriteUnauthorized(w, "Could Not Validate Credentials")
		return
	}
	WriteOK(w, VerifyResponse{Email: email, Authenticated: true})
}
