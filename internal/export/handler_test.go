package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgedit/internal/document"
)

type fakeStore struct {
	svg       []byte
	imported  string
	exportErr error
}

func (s *fakeStore) ExportSVG(context.Context) ([]byte, error) { return s.svg, s.exportErr }

func (s *fakeStore) ImportSVG(_ context.Context, src string) error {
	if !strings.Contains(src, "<svg") {
		return fmt.Errorf("%w: no svg root", document.ErrInvalidSVG)
	}
	s.imported = src
	return nil
}

func TestExport(t *testing.T) {
	store := &fakeStore{svg: []byte("<svg/>")}
	rec := httptest.NewRecorder()
	NewHandler(store).Export(rec, httptest.NewRequest(http.MethodGet, "/export", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="drawing.svg"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "<svg/>", rec.Body.String())

	store.exportErr = errors.New("boom")
	rec = httptest.NewRecorder()
	NewHandler(store).Export(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestImportRawBody(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler(store)

	rec := httptest.NewRecorder()
	h.Import(rec, httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("<svg></svg>")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<svg></svg>", store.imported)

	rec = httptest.NewRecorder()
	h.Import(rec, httptest.NewRequest(http.MethodPost, "/import", strings.NewReader("<html/>")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid SVG content"}`, rec.Body.String())
}

func TestImportMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "in.svg")
	require.NoError(t, err)
	fw.Write([]byte(`<svg width="10"/>`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	store := &fakeStore{}
	rec := httptest.NewRecorder()
	NewHandler(store).Import(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<svg width="10"/>`, store.imported)
}
