package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

// MovementService validates raw input into a Movement and persists it.
type MovementService struct {
	repo      MovementWriter
	publisher EventPublisher
}

// NewMovementService returns a service writing through repo. publisher
// may be nil when no event transport is configured.
func NewMovementService(repo MovementWriter, publisher EventPublisher) *MovementService {
	return &MovementService{repo: repo, publisher: publisher}
}

// CreateMovementInput is the raw, unvalidated shape coming from the API
// or CLI edge.
type CreateMovementInput struct {
	Date        string
	Type        string
	Amount      float64
	Category    string
	Description string
	Currency    string
	FXRate      float64
}

// CreateMovement constructs a validated Movement, persists it and
// announces it on the event stream. Validation errors surface as the
// core sentinel errors; a publish failure is logged and swallowed.
func (s *MovementService) CreateMovement(ctx context.Context, in CreateMovementInput) (int64, error) {
	m, err := core.NewMovement(in.Date, core.MovementType(in.Type), in.Amount, in.Category, in.Description, in.Currency, in.FXRate)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Save(ctx, m)
	if err != nil {
		return 0, fmt.Errorf("save movement: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishMovementCreated(ctx, id, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to publish movement event",
				"id", id, "error", err)
			// Movement is saved; event delivery is best-effort.
		}
	}

	return id, nil
}
