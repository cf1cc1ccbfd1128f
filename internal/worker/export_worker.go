package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/Leobor91/Finanzas-Personales/internal/amqp"
	"github.com/Leobor91/Finanzas-Personales/internal/core"
	"github.com/Leobor91/Finanzas-Personales/internal/storage"
)

var csvHeader = []string{"id", "date", "type", "amount", "currency", "fx_rate", "category", "description"}

// ExportWorker appends newly recorded movements to a CSV ledger export.
// It consumes movement-created events and fetches each full row from the
// ledger store, so the export stays consistent with what was persisted.
type ExportWorker struct {
	storage *storage.SQLiteRepository
	path    string

	mu sync.Mutex // serializes file appends
}

func NewExportWorker(storage *storage.SQLiteRepository, path string) *ExportWorker {
	return &ExportWorker{storage: storage, path: path}
}

// HandleMovementCreated processes one movement event.
func (w *ExportWorker) HandleMovementCreated(ctx context.Context, msg *amqp.MovementCreatedMessage) error {
	movement, err := w.storage.GetMovement(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get movement from storage: %w", err)
	}

	if err := w.appendRow(movement); err != nil {
		return fmt.Errorf("append to export: %w", err)
	}

	slog.InfoContext(ctx, "Movement exported",
		"id", movement.ID,
		"date", movement.Date,
		"amount", movement.Amount,
		"path", w.path)

	return nil
}

func (w *ExportWorker) appendRow(m core.StoredMovement) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat export file: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	fxRate := ""
	if m.FXRate > 0 {
		fxRate = strconv.FormatFloat(m.FXRate, 'f', -1, 64)
	}
	record := []string{
		strconv.FormatInt(m.ID, 10),
		m.Date,
		string(m.Type),
		strconv.FormatFloat(m.Amount, 'f', -1, 64),
		m.Currency,
		fxRate,
		m.Category,
		m.Description,
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}
