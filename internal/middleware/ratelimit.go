// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/olegiv/folio-go/internal/util"
)

// PerIPLimit limits each client IP to requests per window on the routes it
// wraps. Exceeding requests get a 429 JSON error. A non-positive requests
// value disables the limit.
func PerIPLimit(name string, requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(keyByClientIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded", "limiter", name, "ip", util.ClientIP(r), "path", r.URL.Path)
			WriteAPIError(w, http.StatusTooManyRequests, CodeRateLimitExceeded,
				"Too many requests. Please wait a moment and try again.", nil)
		}),
	)
}

// keyByClientIP keys on RemoteAddr without the port, so it follows chi's
// RealIP middleware when that runs first.
func keyByClientIP(r *http.Request) (string, error) {
	return util.ClientIP(r), nil
}
