package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error maps domain errors to a status. Validation failures are 400; the
// rest are logged and reported as 500 without detail.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrInvalidAmount),
		errors.Is(err, tracker.ErrInvalidDate),
		errors.Is(err, export.ErrMissingColumn),
		errors.Is(err, export.ErrEmptyFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
