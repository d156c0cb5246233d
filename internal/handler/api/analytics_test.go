// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/model"
)

func TestTrackAndStats(t *testing.T) {
	s := newTestServer(t)

	for _, page := range []string{"/", "/photos", "/photos"} {
		rec := s.do(t, http.MethodPost, "/api/analytics/track", TrackRequest{Page: page, Referrer: "https://search.example"}, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tracked", decode[TrackResponse](t, rec).Status)
	}

	rec := s.do(t, http.MethodGet, "/api/analytics/stats?hours=6", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.VisitStats](t, rec)
	assert.EqualValues(t, 3, stats.Summary.Total)
	assert.EqualValues(t, 3, stats.Summary.Today)
	require.NotEmpty(t, stats.TopPages)
	assert.Equal(t, model.PageCount{Page: "/photos", Count: 2}, stats.TopPages[0])
	assert.NotNil(t, stats.Hourly)

	rec = s.do(t, http.MethodGet, "/api/analytics/realtime", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decode[RealtimeResponse](t, rec).ActiveNow)
}

func TestTrackMalformedBodyStillOK(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/analytics/track", "not json", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "error", decode[TrackResponse](t, rec).Status)
}

func TestStatsRejectsBadHours(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/analytics/stats?hours=lots", nil, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
