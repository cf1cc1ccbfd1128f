package http

import (
	"net/http"

	"log/slog"

	applog "github.com/Leobor91/Finanzas-Personales/internal/log"
	"github.com/Leobor91/Finanzas-Personales/internal/services"
)

// createMovementRequest is the JSON body accepted by POST /movements.
type createMovementRequest struct {
	Date        string  `json:"date" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=Ingreso Gasto"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description"`
	Currency    string  `json:"currency"`
	FXRate      float64 `json:"fx_rate" validate:"omitempty,gt=0"`
}

type createMovementResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid movement: "+err.Error())
		return
	}

	id, err := s.movements.CreateMovement(r.Context(), services.CreateMovementInput{
		Date:        req.Date,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Currency:    req.Currency,
		FXRate:      req.FXRate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Movement recorded",
		applog.FieldMovementID, id,
		applog.FieldDate, req.Date,
		applog.FieldType, req.Type,
		applog.FieldAmount, req.Amount,
		applog.FieldCategory, req.Category)

	writeJSON(w, http.StatusCreated, createMovementResponse{ID: id})
}

// handleListMovements serves GET /movements with optional date_from,
// date_to, date and category filters. The date parameter is shorthand
// for an exact-day range.
func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateFrom := q.Get("date_from")
	dateTo := q.Get("date_to")
	if exact := q.Get("date"); exact != "" {
		dateFrom = exact
		dateTo = exact
	}

	movements, err := s.queries.Find(r.Context(), dateFrom, dateTo, q.Get("category"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movements)
}
