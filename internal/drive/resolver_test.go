// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package drive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	files    map[string]FileInfo
	failAll  error
	shareErr error
	calls    int
	created  []string
	deleted  []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{files: map[string]FileInfo{}}
}

func (f *fakeProvider) Get(_ context.Context, id string) (FileInfo, error) {
	f.calls++
	if f.failAll != nil {
		return FileInfo{}, f.failAll
	}
	info, ok := f.files[id]
	if !ok {
		return FileInfo{}, ErrNotFound
	}
	return info, nil
}

func (f *fakeProvider) List(_ context.Context, _ string, pageSize int) ([]FileInfo, error) {
	f.calls++
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]FileInfo, 0, len(f.files))
	for _, info := range f.files {
		if len(out) == pageSize {
			break
		}
		out = append(out, info)
	}
	return out, nil
}

func (f *fakeProvider) Create(_ context.Context, name, mimeType, _ string, r io.Reader) (FileInfo, error) {
	f.calls++
	if f.failAll != nil {
		return FileInfo{}, f.failAll
	}
	if _, err := io.ReadAll(r); err != nil {
		return FileInfo{}, err
	}
	id := "new" + name
	info := FileInfo{ID: id, Name: name, MimeType: mimeType}
	f.files[id] = info
	f.created = append(f.created, id)
	return info, nil
}

func (f *fakeProvider) ShareAnyone(context.Context, string) error {
	return f.shareErr
}

func (f *fakeProvider) Delete(_ context.Context, id string) error {
	f.calls++
	if f.failAll != nil {
		return f.failAll
	}
	if _, ok := f.files[id]; !ok {
		return ErrNotFound
	}
	delete(f.files, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolverFileInfo(t *testing.T) {
	p := newFakeProvider()
	p.files["abc"] = FileInfo{ID: "abc", Name: "shot.jpg", MimeType: "image/jpeg"}
	r := NewResolver(p, testLogger())

	info, err := r.FileInfo(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "shot.jpg", info.Name)
	assert.Equal(t, DirectURL("abc"), info.DirectURL)
	assert.Equal(t, EmbedURL("abc"), info.EmbedURL)
	assert.Equal(t, ThumbnailURL("abc", DefaultThumbnailSize), info.ThumbnailURL)

	_, err = r.FileInfo(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
}

func TestResolverProviderFailure(t *testing.T) {
	p := newFakeProvider()
	p.failAll = errors.New("backend exploded")
	r := NewResolver(p, testLogger())

	_, err := r.FileInfo(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	files := r.ListFolder(context.Background(), "folder", 10)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestResolverBreakerOpens(t *testing.T) {
	p := newFakeProvider()
	p.failAll = errors.New("timeout")
	r := NewResolver(p, testLogger())

	for range 5 {
		_, _ = r.FileInfo(context.Background(), "abc")
	}
	callsBefore := p.calls

	_, err := r.FileInfo(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, callsBefore, p.calls, "open breaker must not reach the provider")
}

func TestResolverNotFoundDoesNotTripBreaker(t *testing.T) {
	p := newFakeProvider()
	p.files["ok"] = FileInfo{ID: "ok"}
	r := NewResolver(p, testLogger())

	for range 10 {
		_, err := r.FileInfo(context.Background(), "missing")
		require.ErrorIs(t, err, ErrNotFound)
	}

	_, err := r.FileInfo(context.Background(), "ok")
	assert.NoError(t, err)
}

func TestResolverWithoutProvider(t *testing.T) {
	r := NewResolver(nil, testLogger())
	assert.False(t, r.Configured())

	_, err := r.FileInfo(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	assert.Empty(t, r.ListFolder(context.Background(), "folder", 0))

	err = r.Delete(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	ref := r.NormalizeRef("https://drive.google.com/file/d/xyz/view")
	assert.Equal(t, "xyz", ref.FileID)
}

func TestResolverUploadAndDelete(t *testing.T) {
	p := newFakeProvider()
	p.shareErr = errors.New("permission denied")
	r := NewResolver(p, testLogger())

	info, err := r.Upload(context.Background(), "clip.mp4", "video/mp4", "folder", strings.NewReader("data"))
	require.NoError(t, err, "permission failure must not fail the upload")
	assert.Equal(t, "newclip.mp4", info.ID)
	assert.Equal(t, EmbedURL(info.ID), info.EmbedURL)

	require.NoError(t, r.Delete(context.Background(), info.ID))
	assert.ErrorIs(t, r.Delete(context.Background(), info.ID), ErrNotFound)
}

func TestResolverListFolderPageSize(t *testing.T) {
	p := newFakeProvider()
	for _, id := range []string{"a", "b", "c"} {
		p.files[id] = FileInfo{ID: id}
	}
	r := NewResolver(p, testLogger())

	files := r.ListFolder(context.Background(), "folder", 2)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Equal(t, DirectURL(f.ID), f.DirectURL)
	}
}
