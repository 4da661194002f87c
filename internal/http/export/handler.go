package export

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/http/api"
)

// maxUpload bounds the size of an imported CSV.
const maxUpload = 10 << 20

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export", h.download)
	r.Post("/import", h.importCSV)
}

type importResponse struct {
	Imported int                   `json:"imported"`
	Expenses []api.ExpenseResponse `json:"expenses"`
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := api.FilterFromQuery(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(h.now())))

	// The status line is already sent once writing starts.
	if _, err := h.svc.Export(w, filter); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// importCSV accepts either a multipart form with a "file" field or the CSV
// as the raw request body.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	var src io.Reader = r.Body

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		src = file
	}

	added, err := h.svc.Import(r.Context(), src)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, importResponse{
		Imported: len(added),
		Expenses: api.ToExpenses(added),
	})
}
