package worker

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Leobor91/Finanzas-Personales/internal/amqp"
	"github.com/Leobor91/Finanzas-Personales/internal/core"
	"github.com/Leobor91/Finanzas-Personales/internal/storage"
)

func TestHandleMovementCreatedAppendsCSV(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	m, err := core.NewMovement("2024-01-15", core.TypeExpense, 42.5, "Super", "compra", "COP", 0)
	if err != nil {
		t.Fatalf("build movement: %v", err)
	}
	id, err := repo.Save(ctx, m)
	if err != nil {
		t.Fatalf("save movement: %v", err)
	}

	exportPath := filepath.Join(dir, "export.csv")
	w := NewExportWorker(repo, exportPath)

	if err := w.HandleMovementCreated(ctx, amqp.NewMovementCreatedMessage(id, 1)); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	// A second event appends without repeating the header.
	if err := w.HandleMovementCreated(ctx, amqp.NewMovementCreatedMessage(id, 1)); err != nil {
		t.Fatalf("handle second event: %v", err)
	}

	f, err := os.Open(exportPath)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "id" {
		t.Fatalf("expected header row, got %v", records[0])
	}
	row := records[1]
	if row[1] != "2024-01-15" || row[2] != "Gasto" || row[3] != "42.5" || row[6] != "Super" {
		t.Fatalf("unexpected exported row: %v", row)
	}
}

func TestHandleMovementCreatedUnknownID(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	w := NewExportWorker(repo, filepath.Join(dir, "export.csv"))
	if err := w.HandleMovementCreated(context.Background(), amqp.NewMovementCreatedMessage(999, 1)); err == nil {
		t.Fatal("expected error for unknown movement id")
	}
}
