package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
	applog "github.com/Leobor91/Finanzas-Personales/internal/log"
	"github.com/Leobor91/Finanzas-Personales/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain and service errors to HTTP statuses.
// Validation sentinels become 400s with the sentinel's message; anything
// else is a 500 with a generic body so internals do not leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDateFormat),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidFXRate),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrInvalidYear):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldRequestID, requestIDFromContext(r.Context()),
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
