// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package drive resolves Google Drive file references.
//
// URL derivation is pure string templating and never touches the network, so
// derived links can be embedded in read responses even while Drive is down.
// Only metadata lookups, folder listings, uploads and deletes call the provider.
package drive

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultThumbnailSize is the thumbnail width in pixels used when none is given.
const DefaultThumbnailSize = 800

var (
	pathIDPattern  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	queryIDPattern = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	bareIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ExtractFileID returns the Drive file ID referenced by s.
// Rules are tried in order and the first match wins:
// a /d/{id} path segment, an id={id} query parameter, then s itself if it
// already looks like a bare ID.
func ExtractFileID(s string) (string, bool) {
	if m := pathIDPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := queryIDPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if bareIDPattern.MatchString(s) {
		return s, true
	}
	return "", false
}

// IsDriveURL reports whether s points at drive.google.com.
func IsDriveURL(s string) bool {
	return strings.Contains(s, "drive.google.com")
}

// DirectURL returns the direct view URL for a file.
func DirectURL(id string) string {
	return "https://drive.google.com/uc?export=view&id=" + url.QueryEscape(id)
}

// ThumbnailURL returns a thumbnail URL for a file scaled to size pixels wide.
// A non-positive size falls back to DefaultThumbnailSize.
func ThumbnailURL(id string, size int) string {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w%d", url.QueryEscape(id), size)
}

// EmbedURL returns the iframe-embeddable preview URL for a file.
func EmbedURL(id string) string {
	return "https://drive.google.com/file/d/" + url.PathEscape(id) + "/preview"
}

// URLs bundles every derived link for one file.
type URLs struct {
	FileID       string `json:"file_id"`
	DirectURL    string `json:"direct_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	EmbedURL     string `json:"embed_url"`
}

// MediaURLs derives all links for id.
func MediaURLs(id string) URLs {
	return URLs{
		FileID:       id,
		DirectURL:    DirectURL(id),
		ThumbnailURL: ThumbnailURL(id, DefaultThumbnailSize),
		EmbedURL:     EmbedURL(id),
	}
}

// Ref is a normalized media reference.
// FileID is empty when the raw value was not a Drive link.
type Ref struct {
	URL          string
	FileID       string
	ThumbnailURL string
}

// NormalizeRef canonicalizes a stored media value.
// Drive links are reduced to their file ID plus the derived direct and
// thumbnail URLs. Anything else (CDN URLs, YouTube, Vimeo) is kept verbatim.
func NormalizeRef(raw string) Ref {
	raw = strings.TrimSpace(raw)
	if raw == "" || !IsDriveURL(raw) {
		return Ref{URL: raw}
	}
	id, ok := ExtractFileID(raw)
	if !ok {
		return Ref{URL: raw}
	}
	return Ref{
		URL:          DirectURL(id),
		FileID:       id,
		ThumbnailURL: ThumbnailURL(id, DefaultThumbnailSize),
	}
}
