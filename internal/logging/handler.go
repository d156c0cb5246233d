// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that counts warnings and errors
// in Prometheus while forwarding every record to the wrapped handler.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/olegiv/folio-go/internal/metrics"
)

// Log event categories.
const (
	CategoryAuth      = "auth"
	CategoryContent   = "content"
	CategoryMedia     = "media"
	CategoryAnalytics = "analytics"
	CategoryStore     = "store"
	CategoryConfig    = "config"
	CategorySystem    = "system"
)

// MetricsHandler is a slog.Handler that wraps another handler and counts
// records at or above its level in metrics.LogEvents.
type MetricsHandler struct {
	inner slog.Handler
	level slog.Level // Minimum level to count (default: WARN)
}

// NewMetricsHandler wraps inner and counts WARN and ERROR records.
func NewMetricsHandler(inner slog.Handler) *MetricsHandler {
	return &MetricsHandler{inner: inner, level: slog.LevelWarn}
}

// NewMetricsHandlerWithLevel wraps inner with a custom minimum level.
func NewMetricsHandlerWithLevel(inner slog.Handler, level slog.Level) *MetricsHandler {
	return &MetricsHandler{inner: inner, level: level}
}

// Enabled implements slog.Handler.
func (h *MetricsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *MetricsHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		metrics.LogEvents.WithLabelValues(levelLabel(r.Level), Category(r)).Inc()
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *MetricsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MetricsHandler{inner: h.inner.WithAttrs(attrs), level: h.level}
}

// WithGroup implements slog.Handler.
func (h *MetricsHandler) WithGroup(name string) slog.Handler {
	return &MetricsHandler{inner: h.inner.WithGroup(name), level: h.level}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}

// Category returns the "category" attribute of r, or infers one from the message.
func Category(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "token"):
		return CategoryAuth
	case strings.Contains(msg, "drive") || strings.Contains(msg, "upload") || strings.Contains(msg, "cloudinary"):
		return CategoryMedia
	case strings.Contains(msg, "visit") || strings.Contains(msg, "analytics"):
		return CategoryAnalytics
	case strings.Contains(msg, "project") || strings.Contains(msg, "profile") || strings.Contains(msg, "contact"):
		return CategoryContent
	case strings.Contains(msg, "database") || strings.Contains(msg, "mongo") || strings.Contains(msg, "store"):
		return CategoryStore
	case strings.Contains(msg, "config") || strings.Contains(msg, "secret"):
		return CategoryConfig
	default:
		return CategorySystem
	}
}
