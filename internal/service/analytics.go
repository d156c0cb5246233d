// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/folio-go/internal/metrics"
	"github.com/olegiv/folio-go/internal/model"
	"github.com/olegiv/folio-go/internal/store"
)

// Analytics defaults.
const (
	DefaultStatsHours   = 24
	MaxStatsHours       = 24 * 366
	DefaultTopPages     = 5
	ActiveWindowMinutes = 5
	hourLabelLayout     = "01/02 15:00"
)

// CountryLookup resolves an IP address to a country code.
type CountryLookup interface {
	Country(ip string) string
}

// Visit is a page view reported by the site.
type Visit struct {
	Page      string
	Referrer  string
	UserAgent string
	IP        string
}

// AnalyticsService records visits and folds them into dashboard views.
// Reads never fail: on store errors they log and return empty values.
type AnalyticsService struct {
	coll   store.Collection
	geo    CountryLookup
	logger *slog.Logger
}

// NewAnalyticsService creates an AnalyticsService. geo may be nil.
func NewAnalyticsService(db store.Database, geo CountryLookup, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{coll: db.Collection(store.Analytics), geo: geo, logger: logger}
}

// Record stores a visit. Missing fields get defaults; the only possible
// error is a store failure.
func (s *AnalyticsService) Record(ctx context.Context, v Visit) error {
	ev := model.VisitEvent{
		ID:        store.NewID(),
		Page:      strings.TrimSpace(v.Page),
		Timestamp: timeNow(),
		UserAgent: v.UserAgent,
		IP:        v.IP,
		Referrer:  v.Referrer,
	}
	if ev.Page == "" {
		ev.Page = "/"
	}
	if ev.IP == "" {
		ev.IP = "unknown"
	}
	ev.Browser, ev.OS, ev.Device = parseUserAgent(v.UserAgent)
	if s.geo != nil {
		ev.Country = s.geo.Country(ev.IP)
	}

	if err := s.coll.Insert(ctx, ev.ID, &ev); err != nil {
		metrics.VisitsRecorded.WithLabelValues("error").Inc()
		s.logger.Error("recording visit failed", "page", ev.Page, "error", err)
		return storeError("record visit", err)
	}
	metrics.VisitsRecorded.WithLabelValues("stored").Inc()
	return nil
}

// parseUserAgent extracts browser, OS and device type from a user agent string.
func parseUserAgent(uaString string) (browser, os, device string) {
	if uaString == "" {
		return "Unknown", "Unknown", model.DeviceUnknown
	}
	ua := useragent.Parse(uaString)

	browser, os = ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	switch {
	case ua.Bot:
		device = model.DeviceBot
	case ua.Tablet:
		device = model.DeviceTablet
	case ua.Mobile:
		device = model.DeviceMobile
	default:
		device = model.DeviceDesktop
	}
	return browser, os, device
}

func clampHours(hours int) int {
	if hours <= 0 {
		return DefaultStatsHours
	}
	return min(hours, MaxStatsHours)
}

func (s *AnalyticsService) degraded(op string, err error) {
	metrics.Degraded.WithLabelValues("analytics", op).Inc()
	s.logger.Warn("analytics read degraded", "operation", op, "error", err)
}

func since(t time.Time) store.Filter {
	return store.Filter{store.Gte("timestamp", t)}
}

// HourlySeries returns visit counts per UTC hour over the last hours,
// oldest first. Hours without visits are omitted.
func (s *AnalyticsService) HourlySeries(ctx context.Context, hours int) []model.HourlyCount {
	from := timeNow().Add(-time.Duration(clampHours(hours)) * time.Hour)

	buckets, err := s.coll.CountByHour(ctx, "timestamp", since(from))
	if err != nil {
		s.degraded("hourly", err)
		return []model.HourlyCount{}
	}

	out := make([]model.HourlyCount, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, model.HourlyCount{
			Hour:  b.Hour.UTC(),
			Time:  b.Hour.UTC().Format(hourLabelLayout),
			Count: b.Count,
		})
	}
	return out
}

// Summary returns visit totals for today, the last week, the last month and
// all time. Periods start at UTC midnight.
func (s *AnalyticsService) Summary(ctx context.Context) model.VisitSummary {
	midnight := timeNow().Truncate(24 * time.Hour)

	var sum model.VisitSummary
	periods := []struct {
		dst    *int64
		filter store.Filter
	}{
		{&sum.Today, since(midnight)},
		{&sum.Week, since(midnight.AddDate(0, 0, -7))},
		{&sum.Month, since(midnight.AddDate(0, 0, -30))},
		{&sum.Total, nil},
	}
	for _, p := range periods {
		n, err := s.coll.Count(ctx, p.filter)
		if err != nil {
			s.degraded("summary", err)
			return model.VisitSummary{}
		}
		*p.dst = n
	}
	return sum
}

// TopPages returns the most visited pages over the last hours.
func (s *AnalyticsService) TopPages(ctx context.Context, hours, limit int) []model.PageCount {
	if limit <= 0 {
		limit = DefaultTopPages
	}
	from := timeNow().Add(-time.Duration(clampHours(hours)) * time.Hour)

	counts, err := s.coll.CountByValue(ctx, "page", since(from), limit)
	if err != nil {
		s.degraded("top_pages", err)
		return []model.PageCount{}
	}

	out := make([]model.PageCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, model.PageCount{Page: c.Value, Count: c.Count})
	}
	return out
}

// ActiveNow counts visits in the last ActiveWindowMinutes minutes.
func (s *AnalyticsService) ActiveNow(ctx context.Context) int64 {
	from := timeNow().Add(-ActiveWindowMinutes * time.Minute)
	n, err := s.coll.Count(ctx, since(from))
	if err != nil {
		s.degraded("realtime", err)
		return 0
	}
	return n
}

// Stats bundles the dashboard views for the last hours.
func (s *AnalyticsService) Stats(ctx context.Context, hours int) model.VisitStats {
	return model.VisitStats{
		Hourly:   s.HourlySeries(ctx, hours),
		Summary:  s.Summary(ctx),
		TopPages: s.TopPages(ctx, hours, DefaultTopPages),
	}
}
