package services

import (
	"context"
	"errors"
	"time"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

// ErrInvalidRange marks a listing request whose 'to' date precedes 'from'.
var ErrInvalidRange = errors.New("'to' date cannot be earlier than 'from' date")

// QueryService validates listing filters before touching the store.
type QueryService struct {
	repo MovementFinder
}

func NewQueryService(repo MovementFinder) *QueryService {
	return &QueryService{repo: repo}
}

// Find lists movements matching the criteria. Provided date bounds must
// be YYYY-MM-DD; when both are present, dateTo must not precede dateFrom.
// Lexicographic comparison is correct here because the format is
// zero-padded ISO.
func (s *QueryService) Find(ctx context.Context, dateFrom, dateTo, category string) ([]core.StoredMovement, error) {
	if dateFrom != "" {
		if _, err := time.Parse(core.DateLayout, dateFrom); err != nil {
			return nil, core.ErrInvalidDateFormat
		}
	}
	if dateTo != "" {
		if _, err := time.Parse(core.DateLayout, dateTo); err != nil {
			return nil, core.ErrInvalidDateFormat
		}
	}
	if dateFrom != "" && dateTo != "" && dateTo < dateFrom {
		return nil, ErrInvalidRange
	}

	return s.repo.FindByCriteria(ctx, core.Criteria{
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Category: category,
	})
}
