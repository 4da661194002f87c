package category

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgie/internal/http/api"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

type Handler struct {
	svc *tracker.Service
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{name}", h.delete)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, api.ToCategories(h.svc.Snapshot().CustomCategories))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, added := h.svc.AddCategory(r.Context(), req.Name)
	if !added {
		http.Error(w, "category is blank, built in or already exists", http.StatusConflict)
		return
	}

	api.JSON(w, http.StatusCreated, api.ToCategories(state.CustomCategories))
}

// delete moves the category's expenses to "other" before removing it.
func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if _, removed := h.svc.DeleteCategory(r.Context(), chi.URLParam(r, "name")); !removed {
		http.Error(w, "custom category not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
