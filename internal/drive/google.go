// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, thumbnailLink"

// GoogleProvider talks to the Drive v3 API with a service account.
type GoogleProvider struct {
	svc *gdrive.Service
}

// NewGoogleProvider builds a provider from a service account key file or an inline JSON key.
// credentialsJSON wins when both are set.
func NewGoogleProvider(ctx context.Context, credentialsFile, credentialsJSON string) (*GoogleProvider, error) {
	var opts []option.ClientOption
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	default:
		return nil, errors.New("no drive credentials configured")
	}
	opts = append(opts, option.WithScopes(gdrive.DriveScope))

	svc, err := gdrive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &GoogleProvider{svc: svc}, nil
}

// Get fetches file metadata.
func (p *GoogleProvider) Get(ctx context.Context, id string) (FileInfo, error) {
	f, err := p.svc.Files.Get(id).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return FileInfo{}, mapAPIError("get file", err)
	}
	return toFileInfo(f), nil
}

// List returns one page of files in a folder.
func (p *GoogleProvider) List(ctx context.Context, folderID string, pageSize int) ([]FileInfo, error) {
	res, err := p.svc.Files.List().
		Q(folderQuery(folderID)).
		PageSize(int64(pageSize)).
		Fields("files(" + fileFields + ")").
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapAPIError("list files", err)
	}

	files := make([]FileInfo, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, toFileInfo(f))
	}
	return files, nil
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// folderQuery builds the listing query for folderID, escaping it as a
// Drive query string literal.
func folderQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed=false", queryEscaper.Replace(folderID))
}

// Create uploads r as a new file.
func (p *GoogleProvider) Create(ctx context.Context, name, mimeType, folderID string, r io.Reader) (FileInfo, error) {
	meta := &gdrive.File{Name: name, MimeType: mimeType}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}
	f, err := p.svc.Files.Create(meta).Media(r).Fields(fileFields).Context(ctx).Do()
	if err != nil {
		return FileInfo{}, mapAPIError("create file", err)
	}
	return toFileInfo(f), nil
}

// ShareAnyone grants anyone-with-the-link read access.
func (p *GoogleProvider) ShareAnyone(ctx context.Context, id string) error {
	perm := &gdrive.Permission{Type: "anyone", Role: "reader"}
	if _, err := p.svc.Permissions.Create(id, perm).Context(ctx).Do(); err != nil {
		return mapAPIError("create permission", err)
	}
	return nil
}

// Delete permanently removes a file.
func (p *GoogleProvider) Delete(ctx context.Context, id string) error {
	if err := p.svc.Files.Delete(id).Context(ctx).Do(); err != nil {
		return mapAPIError("delete file", err)
	}
	return nil
}

func mapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toFileInfo(f *gdrive.File) FileInfo {
	info := FileInfo{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		Size:         f.Size,
		WebViewLink:  f.WebViewLink,
		ThumbnailURL: f.ThumbnailLink,
	}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		info.CreatedTime = t
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		info.ModifiedTime = t
	}
	return info
}
