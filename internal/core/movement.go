package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted calendar date format for movements.
const DateLayout = "2006-01-02"

// DefaultCurrency is assumed when a movement does not declare one.
const DefaultCurrency = "COP"

type MovementType string

const (
	TypeIncome  MovementType = "Ingreso"
	TypeExpense MovementType = "Gasto"
)

var (
	ErrInvalidAmount     = errors.New("amount must be a numeric value greater than zero")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidType       = errors.New("type must be 'Ingreso' or 'Gasto'")
	ErrEmptyCategory     = errors.New("category cannot be empty")
	ErrInvalidFXRate     = errors.New("fx rate must be greater than zero")
)

// Movement is a single recorded financial event. It is immutable once
// validated: construct it with NewMovement, never by hand.
type Movement struct {
	Date        string       `json:"date"`
	Type        MovementType `json:"type"`
	Amount      float64      `json:"amount"`
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`
	Currency    string       `json:"currency"`
	FXRate      float64      `json:"fx_rate,omitempty"` // stored verbatim, never applied
}

// StoredMovement is a Movement after persistence, carrying its row id.
type StoredMovement struct {
	ID int64 `json:"id"`
	Movement
}

// NewMovement validates raw input and returns a Movement ready for
// persistence. A zero fxRate means "not provided".
func NewMovement(date string, typ MovementType, amount float64, category, description, currency string, fxRate float64) (Movement, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Movement{}, ErrInvalidDateFormat
	}
	if typ != TypeIncome && typ != TypeExpense {
		return Movement{}, ErrInvalidType
	}
	if amount <= 0 {
		return Movement{}, ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return Movement{}, ErrEmptyCategory
	}
	if fxRate < 0 {
		return Movement{}, ErrInvalidFXRate
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Movement{
		Date:        date,
		Type:        typ,
		Amount:      amount,
		Category:    category,
		Description: description,
		Currency:    currency,
		FXRate:      fxRate,
	}, nil
}

// IsExpense reports whether the movement decreases the balance.
func (m Movement) IsExpense() bool {
	return m.Type == TypeExpense
}

// Signed returns the amount with the sign implied by the movement type.
func (m Movement) Signed() float64 {
	if m.IsExpense() {
		return -m.Amount
	}
	return m.Amount
}

// ParseAmount converts a user-supplied amount string to a positive float.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for anything that is not a number strictly
// greater than zero.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	v, _ := d.Float64()
	return v, nil
}
