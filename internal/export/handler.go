package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/inamate/svgedit/internal/document"
)

const maxUploadSize = 10 << 20 // 10MB

// Store is the document the handler reads from and writes to.
type Store interface {
	ExportSVG(ctx context.Context) ([]byte, error)
	ImportSVG(ctx context.Context, src string) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Export handles GET /export: the document as a drawing.svg download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.ExportSVG(r.Context())
	if err != nil {
		slog.Error("export svg", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", document.ExportMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, document.ExportFilename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /import. The body is raw SVG markup, either sent
// directly or as the "file" field of a multipart form.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	src, err := readUpload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request too large or unreadable"})
		return
	}

	if err := h.store.ImportSVG(r.Context(), src); err != nil {
		if errors.Is(err, document.ErrInvalidSVG) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid SVG content"})
			return
		}
		slog.Error("import svg", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readUpload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err == nil {
		defer r.MultipartForm.RemoveAll()
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		return string(data), err
	} else if !errors.Is(err, http.ErrNotMultipart) {
		return "", err
	}

	data, err := io.ReadAll(r.Body)
	return string(data), err
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
