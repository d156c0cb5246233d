// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio-go/internal/auth"
	"github.com/olegiv/folio-go/internal/cdn"
	"github.com/olegiv/folio-go/internal/drive"
	"github.com/olegiv/folio-go/internal/imaging"
	"github.com/olegiv/folio-go/internal/service"
	"github.com/olegiv/folio-go/internal/testutil"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "S3cret-pass"
	testJWTSecret     = "Abcdefghijklmnopqrstuvwxyz012345!"
)

// fakeDrive is an in-memory drive.Provider.
type fakeDrive struct {
	mu      sync.Mutex
	files   map[string]drive.FileInfo
	failAll bool
	deleted []string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{files: map[string]drive.FileInfo{}}
}

func (f *fakeDrive) Get(_ context.Context, id string) (drive.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return drive.FileInfo{}, io.ErrUnexpectedEOF
	}
	info, ok := f.files[id]
	if !ok {
		return drive.FileInfo{}, drive.ErrNotFound
	}
	return info, nil
}

func (f *fakeDrive) List(_ context.Context, _ string, _ int) ([]drive.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]drive.FileInfo, 0, len(f.files))
	for _, info := range f.files {
		out = append(out, info)
	}
	return out, nil
}

func (f *fakeDrive) Create(_ context.Context, name, mimeType, _ string, r io.Reader) (drive.FileInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return drive.FileInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	info := drive.FileInfo{ID: "created" + name, Name: name, MimeType: mimeType, Size: int64(len(data))}
	f.files[info.ID] = info
	return info, nil
}

func (f *fakeDrive) ShareAnyone(context.Context, string) error { return nil }

func (f *fakeDrive) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return drive.ErrNotFound
	}
	delete(f.files, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeCDN records uploads and answers with a predictable URL.
type fakeCDN struct {
	mu      sync.Mutex
	uploads []cdn.UploadParams
}

func (f *fakeCDN) Upload(_ context.Context, r io.Reader, params cdn.UploadParams) (cdn.UploadResult, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return cdn.UploadResult{}, err
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, params)
	f.mu.Unlock()
	id := params.Folder + "/" + params.PublicID
	return cdn.UploadResult{SecureURL: "https://res.cloudinary.com/demo/" + params.ResourceType + "/upload/" + id, PublicID: id}, nil
}

type testServer struct {
	handler http.Handler
	drive   *fakeDrive
	cdn     *fakeCDN
	token   string
}

type serverOption func(*Deps, *RouterConfig)

func withoutCDN() serverOption {
	return func(d *Deps, _ *RouterConfig) {
		d.CDN = cdn.NewUploader(nil, imaging.NewProcessor(0), d.Logger)
	}
}

func withRouterConfig(fn func(*RouterConfig)) serverOption {
	return func(_ *Deps, c *RouterConfig) { fn(c) }
}

// newTestServer wires the full router over a temporary SQLite store and
// fake providers.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	db := testutil.TestStore(t)
	logger := testutil.TestLoggerSilent()
	verifier := auth.NewVerifier(auth.Identity{Email: testAdminEmail, Password: testAdminPassword}, testJWTSecret, "folio", time.Hour)
	fd := newFakeDrive()
	fc := &fakeCDN{}

	deps := Deps{
		DB:             db,
		Verifier:       verifier,
		Profiles:       service.NewProfileService(db, logger),
		Photos:         service.NewPhotoService(db, logger),
		Videos:         service.NewVideoService(db, logger),
		Edits:          service.NewEditService(db, logger),
		Contact:        service.NewContactService(db, logger),
		Analytics:      service.NewAnalyticsService(db, nil, logger),
		Drive:          drive.NewResolver(fd, logger),
		CDN:            cdn.NewUploader(fc, imaging.NewProcessor(0), logger),
		Logger:         logger,
		MaxUploadBytes: 1 << 20,
		DriveFolderID:  "root-folder",
	}
	cfg := RouterConfig{
		CORSOrigins:    []string{"http://localhost:3000"},
		IsDevelopment:  true,
		RequestTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}

	token, err := verifier.Issue(testAdminEmail)
	require.NoError(t, err)

	return &testServer{
		handler: NewRouter(NewHandler(deps), cfg),
		drive:   fd,
		cdn:     fc,
		token:   token.AccessToken,
	}
}

// do sends a request with an optional JSON body. Authenticated requests
// carry the admin token.
func (s *testServer) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "203.0.113.10:4321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// upload sends a multipart request with one "file" part.
func (s *testServer) upload(t *testing.T, path, filename, contentType string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.RemoteAddr = "203.0.113.10:4321"
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}
