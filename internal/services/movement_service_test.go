package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

type fakeWriter struct {
	saved  []core.Movement
	nextID int64
}

func (f *fakeWriter) Save(_ context.Context, m core.Movement) (int64, error) {
	f.saved = append(f.saved, m)
	f.nextID++
	return f.nextID, nil
}

type fakePublisher struct {
	published []int64
	err       error
}

func (f *fakePublisher) PublishMovementCreated(_ context.Context, id, _ int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	return nil
}

func TestCreateMovement(t *testing.T) {
	writer := &fakeWriter{}
	pub := &fakePublisher{}
	svc := NewMovementService(writer, pub)

	id, err := svc.CreateMovement(context.Background(), CreateMovementInput{
		Date: "2024-01-15", Type: "Gasto", Amount: 42, Category: "Super",
	})
	if err != nil {
		t.Fatalf("create movement: %v", err)
	}
	if id != 1 || len(writer.saved) != 1 {
		t.Fatalf("expected one saved movement with id 1, got id=%d saved=%d", id, len(writer.saved))
	}
	if writer.saved[0].Currency != core.DefaultCurrency {
		t.Fatalf("expected defaulted currency, got %q", writer.saved[0].Currency)
	}
	if len(pub.published) != 1 || pub.published[0] != 1 {
		t.Fatalf("expected event published for id 1, got %v", pub.published)
	}
}

func TestCreateMovementValidationStopsBeforeStore(t *testing.T) {
	writer := &fakeWriter{}
	svc := NewMovementService(writer, nil)

	cases := []struct {
		in   CreateMovementInput
		want error
	}{
		{CreateMovementInput{Date: "2024-01-15", Type: "Gasto", Amount: 0, Category: "X"}, core.ErrInvalidAmount},
		{CreateMovementInput{Date: "2024-01-15", Type: "Gasto", Amount: -5, Category: "X"}, core.ErrInvalidAmount},
		{CreateMovementInput{Date: "15/01/2024", Type: "Gasto", Amount: 1, Category: "X"}, core.ErrInvalidDateFormat},
		{CreateMovementInput{Date: "2024-01-15", Type: "Transferencia", Amount: 1, Category: "X"}, core.ErrInvalidType},
	}
	for _, tc := range cases {
		if _, err := svc.CreateMovement(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%+v: expected %v, got %v", tc.in, tc.want, err)
		}
	}
	if len(writer.saved) != 0 {
		t.Fatalf("invalid input must never reach the store, saved %d", len(writer.saved))
	}
}

func TestCreateMovementSurvivesPublishFailure(t *testing.T) {
	writer := &fakeWriter{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewMovementService(writer, pub)

	id, err := svc.CreateMovement(context.Background(), CreateMovementInput{
		Date: "2024-01-15", Type: "Ingreso", Amount: 10, Category: "Sueldo",
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
}
