package expense

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/http/api"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
	"github.com/MrJamesThe3rd/budgie/internal/undo"
)

type Handler struct {
	svc    *tracker.Service
	undoer *undo.Undoer
	buf    *undo.Buffer
	now    func() time.Time
}

func NewHandler(svc *tracker.Service, buf *undo.Buffer) *Handler {
	return &Handler{
		svc:    svc,
		undoer: undo.NewUndoer(svc, buf),
		buf:    buf,
		now:    time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/undo", h.undo)
	r.Get("/undo", h.pending)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	Name     string           `json:"name"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     string           `json:"date"`
	Category string           `json:"category"`
}

// updateExpenseRequest carries only the fields being changed.
type updateExpenseRequest struct {
	Name     *string          `json:"name"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *string          `json:"date"`
	Category *string          `json:"category"`
}

type deleteResponse struct {
	Deleted   api.ExpenseResponse `json:"deleted"`
	UndoUntil time.Time           `json:"undoUntil"`
}

type pendingResponse struct {
	Pending   *api.ExpenseResponse `json:"pending"`
	UndoUntil *time.Time           `json:"undoUntil,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := api.FilterFromQuery(r)
	if err != nil {
		api.Error(w, err)
		return
	}

	expenses := tracker.FilterExpenses(h.svc.Snapshot().Expenses, filter)

	api.JSON(w, http.StatusOK, api.ToExpenses(expenses))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Amount == nil {
		api.Error(w, fmt.Errorf("%w: amount is required", tracker.ErrInvalidAmount))
		return
	}

	date := h.now()

	if req.Date != "" {
		d, err := tracker.ParseDate(req.Date)
		if err != nil {
			api.Error(w, err)
			return
		}

		date = d
	}

	e, err := h.svc.AddExpense(r.Context(), tracker.Draft{
		Name:     req.Name,
		Amount:   *req.Amount,
		Date:     date,
		Category: req.Category,
	})
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, api.ToExpense(e))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")

	e, ok := h.svc.Snapshot().Find(id)
	if !ok {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	if req.Name != nil {
		e.Name = *req.Name
	}

	if req.Amount != nil {
		e.Amount = *req.Amount
	}

	if req.Category != nil {
		e.Category = *req.Category
	}

	if req.Date != nil {
		d, err := tracker.ParseDate(*req.Date)
		if err != nil {
			api.Error(w, err)
			return
		}

		e.Date = d
	}

	state, found, err := h.svc.EditExpense(r.Context(), e)
	if err != nil {
		api.Error(w, err)
		return
	}

	// Deleted between the lookup and the edit.
	if !found {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	updated, _ := state.Find(id)
	api.JSON(w, http.StatusOK, api.ToExpense(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	removed, ok := h.undoer.Delete(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	resp := deleteResponse{Deleted: api.ToExpense(removed)}
	if _, until, pending := h.buf.Pending(); pending {
		resp.UndoUntil = until
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	restored, ok := h.undoer.Undo(r.Context())
	if !ok {
		http.Error(w, "nothing to undo", http.StatusConflict)
		return
	}

	api.JSON(w, http.StatusOK, api.ToExpense(restored))
}

func (h *Handler) pending(w http.ResponseWriter, _ *http.Request) {
	var resp pendingResponse

	if e, until, ok := h.buf.Pending(); ok {
		resp.Pending = new(api.ToExpense(e))
		resp.UndoUntil = &until
	}

	api.JSON(w, http.StatusOK, resp)
}
