package budget

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/http/api"
	"github.com/MrJamesThe3rd/budgie/internal/summary"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

type Handler struct {
	svc *tracker.Service
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/state", h.state)
	r.Get("/summary", h.summary)
	r.Put("/budget", h.setBudget)
}

type setBudgetRequest struct {
	MonthlyBalance *decimal.Decimal `json:"monthlyBalance"`
}

func (h *Handler) state(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, api.ToState(h.svc.Snapshot()))
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, api.ToSummary(summary.Of(h.svc.Snapshot())))
}

func (h *Handler) setBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.MonthlyBalance == nil {
		http.Error(w, "monthlyBalance is required", http.StatusBadRequest)
		return
	}

	state, err := h.svc.SetMonthlyBalance(r.Context(), *req.MonthlyBalance)
	if err != nil {
		api.Error(w, err)
		return
	}

	api.JSON(w, http.StatusOK, api.ToBudget(state.Budget))
}
