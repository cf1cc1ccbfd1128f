package services

import (
	"context"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

// MovementWriter persists validated movements.
type MovementWriter interface {
	Save(ctx context.Context, m core.Movement) (int64, error)
}

// MovementFinder lists movements by filter criteria.
type MovementFinder interface {
	FindByCriteria(ctx context.Context, c core.Criteria) ([]core.StoredMovement, error)
}

// AggregateReader is the grouped-query surface the report engine reads.
// The ledger store guarantees zero-filled time buckets; the report engine
// layers carryover arithmetic, zero filtering and ordering on top.
type AggregateReader interface {
	GetMonthlyAggregates(ctx context.Context, month, year string) (core.TypeTotals, error)
	GetYearlyAggregates(ctx context.Context, year string) (map[string]core.TypeTotals, error)
	GetDailyAggregates(ctx context.Context, month, year string) (map[string]core.TypeTotals, error)
	GetExpensesByCategory(ctx context.Context, year, month string) ([]core.CategoryTotal, error)
	GetTopExpenses(ctx context.Context, month, year string, limit int, category string) ([]core.TopExpense, error)
}

// EventPublisher announces newly recorded movements. Publishing is
// best-effort: a failure must never fail the originating request.
type EventPublisher interface {
	PublishMovementCreated(ctx context.Context, id, version int64) error
}
