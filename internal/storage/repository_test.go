package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustSave(t *testing.T, repo *SQLiteRepository, date string, typ core.MovementType, amount float64, category, description string) int64 {
	t.Helper()
	m, err := core.NewMovement(date, typ, amount, category, description, "", 0)
	if err != nil {
		t.Fatalf("build movement: %v", err)
	}
	id, err := repo.Save(context.Background(), m)
	if err != nil {
		t.Fatalf("save movement: %v", err)
	}
	return id
}

func TestSaveAndFindByCriteria(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustSave(t, repo, "2024-01-10", core.TypeIncome, 100, "Sueldo", "Pago")
	mustSave(t, repo, "2024-01-15", core.TypeExpense, 20, "Supermercado", "Compra")
	mustSave(t, repo, "2024-02-01", core.TypeExpense, 50, "Super", "Compra2")

	// Round-trip inside a range without category filter.
	res, err := repo.FindByCriteria(ctx, core.Criteria{DateFrom: "2024-01-01", DateTo: "2024-01-31"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 movements in January, got %d", len(res))
	}
	// Ordered by date descending.
	if res[0].Date != "2024-01-15" || res[1].Date != "2024-01-10" {
		t.Fatalf("expected date DESC order, got %s then %s", res[0].Date, res[1].Date)
	}
	if res[0].Type != core.TypeExpense || res[0].Amount != 20 || res[0].Category != "Supermercado" {
		t.Fatalf("round-trip mismatch: %+v", res[0])
	}
	if res[0].Currency != core.DefaultCurrency {
		t.Fatalf("expected default currency, got %q", res[0].Currency)
	}

	// Category substring matches both Super and Supermercado.
	res, err = repo.FindByCriteria(ctx, core.Criteria{Category: "Super"})
	if err != nil {
		t.Fatalf("find by category: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 category matches, got %d", len(res))
	}

	// Open-ended lower bound.
	res, err = repo.FindByCriteria(ctx, core.Criteria{DateFrom: "2024-02-01"})
	if err != nil {
		t.Fatalf("find open-ended: %v", err)
	}
	if len(res) != 1 || res[0].Date != "2024-02-01" {
		t.Fatalf("expected the February movement, got %+v", res)
	}
}

func TestGetMovement(t *testing.T) {
	repo := newTestRepo(t)
	id := mustSave(t, repo, "2024-03-05", core.TypeExpense, 75.5, "Taxi", "aeropuerto")

	m, err := repo.GetMovement(context.Background(), id)
	if err != nil {
		t.Fatalf("get movement: %v", err)
	}
	if m.ID != id || m.Amount != 75.5 || m.Category != "Taxi" || m.Description != "aeropuerto" {
		t.Fatalf("unexpected movement: %+v", m)
	}
}

func TestGetMonthlyAggregates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustSave(t, repo, "2024-01-10", core.TypeIncome, 200, "Sueldo", "")
	mustSave(t, repo, "2024-01-20", core.TypeExpense, 50, "Super", "")
	mustSave(t, repo, "2024-02-01", core.TypeExpense, 999, "Super", "")

	totals, err := repo.GetMonthlyAggregates(ctx, "01", "2024")
	if err != nil {
		t.Fatalf("monthly aggregates: %v", err)
	}
	if totals.Income != 200 || totals.Expense != 50 {
		t.Fatalf("expected {200 50}, got %+v", totals)
	}

	// Empty month yields a zero-valued pair, not an error.
	totals, err = repo.GetMonthlyAggregates(ctx, "07", "2024")
	if err != nil {
		t.Fatalf("empty month: %v", err)
	}
	if totals != (core.TypeTotals{}) {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestGetYearlyAggregatesZeroFillsAllMonths(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustSave(t, repo, "2024-03-10", core.TypeIncome, 300, "Sueldo", "")
	mustSave(t, repo, "2024-03-15", core.TypeExpense, 120, "Super", "")
	mustSave(t, repo, "2023-12-31", core.TypeIncome, 5000, "Bono", "")

	result, err := repo.GetYearlyAggregates(ctx, "2024")
	if err != nil {
		t.Fatalf("yearly aggregates: %v", err)
	}
	if len(result) != 12 {
		t.Fatalf("expected 12 month keys, got %d", len(result))
	}
	for _, m := range core.MonthLabels() {
		if _, ok := result[m]; !ok {
			t.Fatalf("missing month key %q", m)
		}
	}
	if got := result["03"]; got.Income != 300 || got.Expense != 120 {
		t.Fatalf("expected March {300 120}, got %+v", got)
	}
	if got := result["12"]; got != (core.TypeTotals{}) {
		t.Fatalf("December of another year leaked in: %+v", got)
	}
}

func TestGetDailyAggregatesMonthLengths(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		month, year string
		wantDays    int
	}{
		{"01", "2024", 31},
		{"02", "2024", 29}, // leap year
		{"02", "2023", 28},
		{"04", "2024", 30},
	}
	for _, tc := range cases {
		result, err := repo.GetDailyAggregates(ctx, tc.month, tc.year)
		if err != nil {
			t.Fatalf("daily aggregates %s/%s: %v", tc.month, tc.year, err)
		}
		if len(result) != tc.wantDays {
			t.Fatalf("%s/%s: expected %d day keys, got %d", tc.month, tc.year, tc.wantDays, len(result))
		}
	}

	mustSave(t, repo, "2024-02-29", core.TypeExpense, 10, "Super", "")
	result, err := repo.GetDailyAggregates(ctx, "02", "2024")
	if err != nil {
		t.Fatalf("daily aggregates: %v", err)
	}
	if got := result["29"]; got.Expense != 10 {
		t.Fatalf("expected expense 10 on day 29, got %+v", got)
	}
	if got := result["01"]; got != (core.TypeTotals{}) {
		t.Fatalf("expected zero-filled day 01, got %+v", got)
	}
}

func TestGetExpensesByCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustSave(t, repo, "2024-01-10", core.TypeExpense, 120, "Super", "")
	mustSave(t, repo, "2024-01-12", core.TypeExpense, 30, "Super", "")
	mustSave(t, repo, "2024-01-15", core.TypeExpense, 80, "Taxi", "")
	mustSave(t, repo, "2024-01-20", core.TypeIncome, 1000, "Sueldo", "")
	mustSave(t, repo, "2023-06-01", core.TypeExpense, 500, "Viajes", "")

	rows, err := repo.GetExpensesByCategory(ctx, "2024", "01")
	if err != nil {
		t.Fatalf("expenses by category: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(rows))
	}
	if rows[0].Category != "Super" || rows[0].Total != 150 {
		t.Fatalf("expected Super 150 first, got %+v", rows[0])
	}
	if rows[1].Category != "Taxi" || rows[1].Total != 80 {
		t.Fatalf("expected Taxi 80 second, got %+v", rows[1])
	}

	// Year-only restriction.
	rows, err = repo.GetExpensesByCategory(ctx, "2023", "")
	if err != nil {
		t.Fatalf("year-only: %v", err)
	}
	if len(rows) != 1 || rows[0].Category != "Viajes" {
		t.Fatalf("expected only Viajes for 2023, got %+v", rows)
	}

	// Unrestricted.
	rows, err = repo.GetExpensesByCategory(ctx, "", "")
	if err != nil {
		t.Fatalf("unrestricted: %v", err)
	}
	if len(rows) != 3 || rows[0].Category != "Viajes" {
		t.Fatalf("expected Viajes 500 first over all years, got %+v", rows)
	}

	// Month without year narrows nothing.
	rows, err = repo.GetExpensesByCategory(ctx, "", "01")
	if err != nil {
		t.Fatalf("month-only: %v", err)
	}
	if len(rows) != 3 || rows[0].Category != "Viajes" {
		t.Fatalf("expected month alone ignored (all 3 categories), got %+v", rows)
	}
}

func TestGetTopExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustSave(t, repo, "2024-01-05", core.TypeExpense, 10, "Super", "pan")
	mustSave(t, repo, "2024-01-10", core.TypeExpense, 50, "Taxi", "aeropuerto")
	mustSave(t, repo, "2024-01-15", core.TypeExpense, 30, "Super", "mercado")
	mustSave(t, repo, "2024-01-20", core.TypeIncome, 900, "Sueldo", "")

	rows, err := repo.GetTopExpenses(ctx, "01", "2024", 2, "")
	if err != nil {
		t.Fatalf("top expenses: %v", err)
	}
	if len(rows) != 2 || rows[0].Amount != 50 || rows[1].Amount != 30 {
		t.Fatalf("expected [50 30], got %+v", rows)
	}

	// Exact category filter.
	rows, err = repo.GetTopExpenses(ctx, "01", "2024", 0, "Super")
	if err != nil {
		t.Fatalf("top expenses by category: %v", err)
	}
	if len(rows) != 2 || rows[0].Amount != 30 || rows[0].Category != "Super" {
		t.Fatalf("expected Super rows [30 10], got %+v", rows)
	}
}

func TestListYears(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustSave(t, repo, "2022-05-01", core.TypeIncome, 1, "A", "")
	mustSave(t, repo, "2024-05-01", core.TypeIncome, 1, "A", "")
	mustSave(t, repo, "2024-06-01", core.TypeExpense, 1, "A", "")

	years, err := repo.ListYears(ctx)
	if err != nil {
		t.Fatalf("list years: %v", err)
	}
	if len(years) != 2 || years[0] != "2024" || years[1] != "2022" {
		t.Fatalf("expected [2024 2022], got %v", years)
	}
}

func TestCategoryCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AddCategory(ctx, core.TypeExpense, "Super", "🛒")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}

	// Duplicate insert returns the existing id.
	again, err := repo.AddCategory(ctx, core.TypeExpense, "Super", "")
	if err != nil {
		t.Fatalf("add duplicate: %v", err)
	}
	if again != id {
		t.Fatalf("expected existing id %d, got %d", id, again)
	}

	if _, err := repo.AddCategory(ctx, core.TypeIncome, "Sueldo", ""); err != nil {
		t.Fatalf("add income category: %v", err)
	}

	byType, err := repo.CategoriesByType(ctx, core.TypeExpense)
	if err != nil {
		t.Fatalf("categories by type: %v", err)
	}
	if len(byType) != 1 || byType[0].Name != "Super" || byType[0].Icon != "🛒" {
		t.Fatalf("unexpected expense categories: %+v", byType)
	}

	all, err := repo.ListAllCategories(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(all))
	}

	ok, err := repo.UpdateCategory(ctx, id, "Mercado", "")
	if err != nil || !ok {
		t.Fatalf("update category: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateCategory(ctx, 9999, "Nada", "")
	if err != nil || ok {
		t.Fatalf("expected no-op update, ok=%v err=%v", ok, err)
	}

	ok, err = repo.DeleteCategory(ctx, id)
	if err != nil || !ok {
		t.Fatalf("delete category: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DeleteCategory(ctx, id)
	if err != nil || ok {
		t.Fatalf("expected delete miss, ok=%v err=%v", ok, err)
	}
}
