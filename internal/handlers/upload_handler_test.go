package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/testutil"
)

type fakeStorage struct {
	uploaded map[string][]byte
	deleted  []string
	failNext error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}}
}

func (s *fakeStorage) UploadFile(_ context.Context, file []byte, filename, contentType string) (string, string, error) {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return "", "", err
	}
	key := "obj-" + filename
	s.uploaded[key] = file
	return key, s.publicURL(key), nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.uploaded, key)
	return nil
}

func (s *fakeStorage) publicURL(key string) string {
	return "https://cdn.example/" + key
}

func (s *fakeStorage) GetSignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return s.publicURL(path) + "?signed", nil
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadAndDeleteFile(t *testing.T) {
	gdb := testutil.NewDB(t)
	storage := newFakeStorage()
	h := NewUploadHandler(gdb, storage)

	e := newEcho()
	e.POST("/files/upload", h.UploadFile)
	e.DELETE("/files/:id", h.DeleteFile)

	body, contentType := multipartBody(t, "photo.bin", pngHeader)
	rec := serve(e, request{method: http.MethodPost, path: "/files/upload", role: "ADMIN", reader: body,
		headers: map[string]string{echo.HeaderContentType: contentType}})
	requireStatus(t, http.StatusCreated, rec)

	resp := decodeMap(t, rec)
	assert.Equal(t, "image/png", resp["type"])
	assert.Equal(t, "https://cdn.example/obj-photo.bin", resp["url"])
	assert.Contains(t, storage.uploaded, "obj-photo.bin")

	id := resp["id"].(string)
	rec = serve(e, request{method: http.MethodDelete, path: "/files/" + id, role: "ADMIN"})
	requireStatus(t, http.StatusNoContent, rec)
	assert.Equal(t, []string{"obj-photo.bin"}, storage.deleted)
	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.File{}))

	rec = serve(e, request{method: http.MethodDelete, path: "/files/" + id, role: "ADMIN"})
	requireStatus(t, http.StatusNoContent, rec)
	assert.Len(t, storage.deleted, 1)
}

func TestUploadRejections(t *testing.T) {
	gdb := testutil.NewDB(t)
	storage := newFakeStorage()
	e := newEcho()
	e.POST("/files/upload", NewUploadHandler(gdb, storage).UploadFile)

	body, contentType := multipartBody(t, "photo.png", pngHeader)
	rec := serve(e, request{method: http.MethodPost, path: "/files/upload", role: "USER", reader: body,
		headers: map[string]string{echo.HeaderContentType: contentType}})
	requireStatus(t, http.StatusUnauthorized, rec)

	rec = serve(e, request{method: http.MethodPost, path: "/files/upload", role: "ADMIN", body: `{}`})
	requireStatus(t, http.StatusBadRequest, rec)

	storage.failNext = errors.New("bucket unavailable")
	body, contentType = multipartBody(t, "photo.png", pngHeader)
	rec = serve(e, request{method: http.MethodPost, path: "/files/upload", role: "ADMIN", reader: body,
		headers: map[string]string{echo.HeaderContentType: contentType}})
	requireStatus(t, http.StatusInternalServerError, rec)
	assert.Equal(t, "Internal server error", decodeMap(t, rec)["error"])

	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.File{}))
}
