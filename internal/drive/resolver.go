// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/olegiv/folio-go/internal/metrics"
)

// Resolver errors.
var (
	ErrNotFound            = errors.New("drive file not found")
	ErrProviderUnavailable = errors.New("drive provider unavailable")
)

// DefaultPageSize is the folder listing page size used when none is given.
const DefaultPageSize = 100

// MaxPageSize is the largest page size Drive accepts for file listings.
const MaxPageSize = 1000

// FileInfo is the metadata returned for a Drive file.
type FileInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedTime  time.Time `json:"created_time"`
	ModifiedTime time.Time `json:"modified_time"`
	WebViewLink  string    `json:"web_view_link"`
	ThumbnailURL string    `json:"thumbnail_url"`
	DirectURL    string    `json:"direct_url"`
	EmbedURL     string    `json:"embed_url"`
}

// Provider is the remote file API behind the resolver.
// Implementations return ErrNotFound for missing files.
type Provider interface {
	Get(ctx context.Context, id string) (FileInfo, error)
	List(ctx context.Context, folderID string, pageSize int) ([]FileInfo, error)
	Create(ctx context.Context, name, mimeType, folderID string, r io.Reader) (FileInfo, error)
	ShareAnyone(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Resolver derives media URLs and fronts the Drive provider with a circuit breaker.
// A nil provider is allowed; provider operations then report ErrProviderUnavailable.
type Resolver struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
}

const breakerName = "drive"

// NewResolver creates a resolver. provider may be nil.
func NewResolver(provider Provider, logger *slog.Logger) *Resolver {
	metrics.BreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Missing files are a normal answer, not a provider fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Resolver{
		provider: provider,
		cb:       cb,
		logger:   logger,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Configured reports whether a provider is attached.
func (r *Resolver) Configured() bool {
	return r.provider != nil
}

// NormalizeRef canonicalizes a stored media value. See the package-level NormalizeRef.
func (r *Resolver) NormalizeRef(raw string) Ref {
	return NormalizeRef(raw)
}

// execute runs fn through the breaker and maps failures onto resolver errors.
func (r *Resolver) execute(op string, fn func() (any, error)) (any, error) {
	if r.provider == nil {
		metrics.ProviderCalls.WithLabelValues("drive", op, "rejected").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrProviderUnavailable)
	}

	result, err := r.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.ProviderCalls.WithLabelValues("drive", op, "success").Inc()
		return result, nil
	case errors.Is(err, ErrNotFound):
		metrics.ProviderCalls.WithLabelValues("drive", op, "not_found").Inc()
		return nil, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ProviderCalls.WithLabelValues("drive", op, "rejected").Inc()
		return nil, fmt.Errorf("%s: %w: %w", op, ErrProviderUnavailable, err)
	default:
		metrics.ProviderCalls.WithLabelValues("drive", op, "failure").Inc()
		return nil, fmt.Errorf("%s: %w: %w", op, ErrProviderUnavailable, err)
	}
}

// withDerived fills the derived URLs on info.
func withDerived(info FileInfo) FileInfo {
	info.DirectURL = DirectURL(info.ID)
	info.EmbedURL = EmbedURL(info.ID)
	if info.ThumbnailURL == "" {
		info.ThumbnailURL = ThumbnailURL(info.ID, DefaultThumbnailSize)
	}
	return info
}

// FileInfo looks up metadata for a file.
func (r *Resolver) FileInfo(ctx context.Context, id string) (FileInfo, error) {
	res, err := r.execute("get", func() (any, error) {
		return r.provider.Get(ctx, id)
	})
	if err != nil {
		return FileInfo{}, err
	}
	return withDerived(res.(FileInfo)), nil
}

// ListFolder returns a single page of non-trashed files in a folder.
// Failures degrade to an empty slice.
func (r *Resolver) ListFolder(ctx context.Context, folderID string, pageSize int) []FileInfo {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	res, err := r.execute("list_folder", func() (any, error) {
		return r.provider.List(ctx, folderID, pageSize)
	})
	if err != nil {
		r.logger.Warn("drive folder listing degraded", "folder_id", folderID, "error", err)
		metrics.Degraded.WithLabelValues("drive", "list_folder").Inc()
		return []FileInfo{}
	}

	files := res.([]FileInfo)
	out := make([]FileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, withDerived(f))
	}
	return out
}

// Upload creates a file in folderID and makes it publicly readable.
// A failed permission change is logged and the upload still succeeds.
func (r *Resolver) Upload(ctx context.Context, name, mimeType, folderID string, body io.Reader) (FileInfo, error) {
	res, err := r.execute("upload", func() (any, error) {
		return r.provider.Create(ctx, name, mimeType, folderID, body)
	})
	if err != nil {
		return FileInfo{}, err
	}
	info := res.(FileInfo)

	if _, err := r.execute("share", func() (any, error) {
		return nil, r.provider.ShareAnyone(ctx, info.ID)
	}); err != nil {
		r.logger.Warn("failed to make drive file public", "file_id", info.ID, "error", err)
	}

	return withDerived(info), nil
}

// Delete removes a file.
func (r *Resolver) Delete(ctx context.Context, id string) error {
	_, err := r.execute("delete", func() (any, error) {
		return nil, r.provider.Delete(ctx, id)
	})
	return err
}
