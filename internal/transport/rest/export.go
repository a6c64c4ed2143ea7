package rest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"debt-ledger/internal/clients"
	"debt-ledger/internal/service"
)

func (h *Handler) exportDebtors(w http.ResponseWriter, r *http.Request) {
	exportID, err := h.exports.StartDebtorsExport(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "start debtors export failed", "error", err)
		ErrorInternal(w, "내보내기를 시작하지 못했습니다.")
		return
	}

	SuccessAccepted(w, map[string]string{"export_id": exportID})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exports.GetExports(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "list exports failed", "error", err)
		ErrorInternal(w, "내보내기 목록을 불러오지 못했습니다.")
		return
	}

	Success(w, exports)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	exportID := chi.URLParam(r, "export_id")
	if exportID == "" {
		ErrorBadRequest(w, "export_id is required")
		return
	}

	export, err := h.exports.GetExport(r.Context(), exportID)
	if err != nil {
		if errors.Is(err, service.ErrExportNotFound) {
			ErrorNotFound(w, msgExportNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "get export failed", "export_id", exportID, "error", err)
		ErrorInternal(w, err.Error())
		return
	}

	Success(w, export)
}

// serveExportFile streams a generated workbook as an attachment named after
// the file the export produced.
func serveExportFile(files FileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "file")
		path, err := files.Open(name)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.ErrorContext(r.Context(), "open export file failed", "file", name, "error", err)
			}
			ErrorNotFound(w, msgNotFound)
			return
		}

		original := clients.OriginalName(name)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", original, url.PathEscape(original)))
		http.ServeFile(w, r, path)
	}
}

// spaFallback serves files from the built client and answers every other GET
// with its index.html so client-side routes survive a reload.
func spaFallback(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || staticDir == "" ||
			(r.Method != http.MethodGet && r.Method != http.MethodHead) {
			ErrorNotFound(w, msgNotFound)
			return
		}

		rel := filepath.FromSlash(filepath.Clean("/" + r.URL.Path))
		if fi, err := os.Stat(filepath.Join(staticDir, rel)); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, rel))
			return
		}

		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			ErrorNotFound(w, msgNotFound)
			return
		}
		http.ServeFile(w, r, index)
	}
}
