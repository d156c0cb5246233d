// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyAdmin holds the authenticated admin email.
const ContextKeyAdmin ContextKey = "admin"

// TokenValidator checks an access token and returns its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AdminAuth requires a valid bearer token. Missing, malformed, expired and
// forged tokens all get the same 401 response.
func AdminAuth(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := v.Validate(BearerToken(r))
			if err != nil {
				slog.Debug("admin token rejected", "path", r.URL.Path, "error", err)
				w.Header().Set("WWW-Authenticate", "Bearer")
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Could Not Validate Credentials", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAdmin, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is absent or has another scheme.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AdminEmail returns the admin email stored by AdminAuth.
func AdminEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyAdmin).(string)
	return email, ok && email != ""
}
