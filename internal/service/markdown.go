// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	// bioSanitizer allows the safe subset of HTML that Markdown produces.
	bioSanitizer = bluemonday.UGCPolicy()
	// plainSanitizer strips all markup from public form input.
	plainSanitizer = bluemonday.StrictPolicy()
)

// renderMarkdown converts Markdown to sanitized HTML. Conversion failures
// yield "" so the plain text is still served.
func renderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return bioSanitizer.Sanitize(buf.String())
}

// stripMarkup removes every HTML tag from s and trims surrounding space.
// The result is plain text, so entities escaped by the sanitizer are decoded.
func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainSanitizer.Sanitize(s)))
}
