// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusUnprocessableEntity, CodeValidation, "Validation Failed", map[string]string{"title": "required"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error.Code != CodeValidation || got.Error.Message != "Validation Failed" {
		t.Errorf("unexpected error body: %+v", got)
	}
	if got.Error.Details["title"] != "required" {
		t.Errorf("details = %v", got.Error.Details)
	}
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 2)

	a := lc.get("a")
	if a != lc.get("a") {
		t.Error("expected the same limiter for the same key")
	}
	lc.get("b")
	if lc.size() != 2 {
		t.Errorf("size = %d, want 2", lc.size())
	}

	if lc.clearIfExceeds(5) {
		t.Error("cache should not be cleared below the limit")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("cache should be cleared above the limit")
	}
	if lc.size() != 0 {
		t.Errorf("size after clear = %d", lc.size())
	}
}

func TestGlobalRateLimiter(t *testing.T) {
	handler := NewGlobalRateLimiter(0.001, 2).Middleware()(simpleOKHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/photos", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := range 2 {
		if code := send("10.0.0.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, code)
		}
	}
	if code := send("10.0.0.1:2000"); code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded: status = %d, want 429", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", code)
	}
}

func TestGlobalRateLimiterDisabled(t *testing.T) {
	handler := NewGlobalRateLimiter(0, 0).Middleware()(simpleOKHandler)
	for range 5 {
		if code := executeRequest(handler, http.MethodGet, "/").Code; code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
	}
}

func TestPerIPLimit(t *testing.T) {
	handler := PerIPLimit("login", 2, time.Minute)(simpleOKHandler)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("codes = %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", codes[2])
	}
}

func TestPerIPLimitDisabled(t *testing.T) {
	handler := PerIPLimit("track", 0, time.Minute)(simpleOKHandler)
	for range 3 {
		if code := executeRequest(handler, http.MethodPost, "/").Code; code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://portfolio.example"})(simpleOKHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/photos", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portfolio.example" {
		t.Errorf("allowed origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/photos", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q for foreign origin", got)
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		w.WriteHeader(http.StatusOK)
	})
	rec := executeRequest(Timeout(10*time.Millisecond)(slow), http.MethodGet, "/")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	fast := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Test", "1")
		w.WriteHeader(http.StatusCreated)
	})
	rec = executeRequest(Timeout(time.Second)(fast), http.MethodGet, "/")
	if rec.Code != http.StatusCreated || rec.Header().Get("X-Test") != "1" {
		t.Errorf("status = %d, header = %q", rec.Code, rec.Header().Get("X-Test"))
	}
}
