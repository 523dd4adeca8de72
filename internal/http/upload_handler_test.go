package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockObjectStore struct {
	key  string
	body []byte
}

func (m *mockObjectStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	m.key = key
	m.body, _ = io.ReadAll(body)
	return "http://cdn.test/" + key, nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func uploadRequest(t *testing.T, r http.Handler, token, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(data)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestUploadHandler_StoresImage(t *testing.T) {
	api := newTestAPI(t)
	admin := api.loginAdmin(t, "admin@example.com")

	rec := uploadRequest(t, api.router, admin, "file", pngBytes)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["image_url"] != "http://cdn.test/"+api.store.key {
		t.Fatalf("unexpected image_url %q", resp["image_url"])
	}
	if !bytes.Equal(api.store.body, pngBytes) {
		t.Fatalf("stored body mismatch")
	}
}

func TestUploadHandler_RejectsNonImage(t *testing.T) {
	api := newTestAPI(t)
	admin := api.loginAdmin(t, "admin@example.com")

	rec := uploadRequest(t, api.router, admin, "file", []byte("#!/bin/sh\necho hi\n"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUploadHandler_MissingFile(t *testing.T) {
	api := newTestAPI(t)
	admin := api.loginAdmin(t, "admin@example.com")

	rec := uploadRequest(t, api.router, admin, "other", pngBytes)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUploadHandler_RequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	user := api.login(t, "user@example.com")

	if rec := uploadRequest(t, api.router, user, "file", pngBytes); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if rec := uploadRequest(t, api.router, "", "file", pngBytes); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}
