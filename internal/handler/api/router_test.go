// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	banner := decode[BannerResponse](t, rec)
	assert.Equal(t, "active", banner.Status)
	assert.NotEmpty(t, banner.Version)

	rec = s.do(t, http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Store)
	assert.Equal(t, "sqlite", health.Backend)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/health", nil, false)

	rec := s.do(t, http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "folio_http_requests_total")
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/nope", nil, false)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, rec).Error.Code)

	rec = s.do(t, http.MethodPatch, "/api/profile", nil, false)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// Every admin route rejects a request without a token before touching the store.
func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	const id = "7d8d2a5e-4c2b-4d7a-9d6e-3f1f6a1c2b3d"

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/verify"},
		{http.MethodPost, "/api/profile"},
		{http.MethodPut, "/api/profile"},
		{http.MethodPost, "/api/profile/upload-image"},
		{http.MethodPost, "/api/photos"},
		{http.MethodPut, "/api/photos/" + id},
		{http.MethodDelete, "/api/photos/" + id},
		{http.MethodPost, "/api/photos/upload-image"},
		{http.MethodPost, "/api/videos"},
		{http.MethodPut, "/api/videos/" + id},
		{http.MethodDelete, "/api/videos/" + id},
		{http.MethodPost, "/api/videos/upload-video"},
		{http.MethodPost, "/api/videos/upload-thumbnail"},
		{http.MethodPost, "/api/edits"},
		{http.MethodPut, "/api/edits/" + id},
		{http.MethodDelete, "/api/edits/" + id},
		{http.MethodPost, "/api/edits/upload-video"},
		{http.MethodGet, "/api/contact"},
		{http.MethodGet, "/api/contact/" + id},
		{http.MethodPut, "/api/contact/" + id + "/read"},
		{http.MethodDelete, "/api/contact/" + id},
		{http.MethodPost, "/api/media/drive/upload"},
		{http.MethodDelete, "/api/media/drive/abc123"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := s.do(t, rt.method, rt.path, nil, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decode[errorBody](t, rec).Error.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/photos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, withRouterConfig(func(c *RouterConfig) { c.LoginPerMinute = 2 }))
	body := LoginRequest{Email: testAdminEmail, Password: "wrong"}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", body, false).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", body, false).Code)

	rec := s.do(t, http.MethodPost, "/api/auth/login", body, false)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limit_exceeded", decode[errorBody](t, rec).Error.Code)
}
