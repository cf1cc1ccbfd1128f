package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Leobor91/Finanzas-Personales/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the ledger store: an append-only collection of
// movements plus the grouped aggregate queries the report engine needs.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save inserts a validated movement and returns its assigned id.
// Duplicates are permitted; movements carry no uniqueness constraint.
func (r *SQLiteRepository) Save(ctx context.Context, m core.Movement) (int64, error) {
	var fxRate sql.NullFloat64
	if m.FXRate > 0 {
		fxRate = sql.NullFloat64{Float64: m.FXRate, Valid: true}
	}
	var desc sql.NullString
	if m.Description != "" {
		desc = sql.NullString{String: m.Description, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movements (date, type, amount, currency, fx_rate, category, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Date, string(m.Type), m.Amount, m.Currency, fxRate, m.Category, desc)
	if err != nil {
		return 0, fmt.Errorf("insert movement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("movement id: %w", err)
	}

	slog.InfoContext(ctx, "Movement saved",
		"id", id,
		"date", m.Date,
		"type", m.Type,
		"amount", m.Amount,
		"category", m.Category)

	return id, nil
}

// GetMovement retrieves a single movement by id.
func (r *SQLiteRepository) GetMovement(ctx context.Context, id int64) (core.StoredMovement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, type, amount, currency, fx_rate, category, description
		 FROM movements WHERE id = ?`, id)
	m, err := scanMovement(row)
	if err != nil {
		return core.StoredMovement{}, fmt.Errorf("get movement %d: %w", id, err)
	}
	return m, nil
}

// FindByCriteria lists movements inside the inclusive [DateFrom, DateTo]
// range (either bound optional) whose category contains Criteria.Category
// as a substring. Results are ordered by date descending, no pagination.
func (r *SQLiteRepository) FindByCriteria(ctx context.Context, c core.Criteria) ([]core.StoredMovement, error) {
	query := `SELECT id, date, type, amount, currency, fx_rate, category, description
		 FROM movements WHERE 1=1`
	var args []any
	if c.DateFrom != "" {
		query += " AND date >= ?"
		args = append(args, c.DateFrom)
	}
	if c.DateTo != "" {
		query += " AND date <= ?"
		args = append(args, c.DateTo)
	}
	if c.Category != "" {
		query += " AND category LIKE ?"
		args = append(args, "%"+c.Category+"%")
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}
	defer rows.Close()

	var results []core.StoredMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return results, nil
}

// GetMonthlyAggregates sums amounts per type for one month. Types with no
// movements stay at zero.
func (r *SQLiteRepository) GetMonthlyAggregates(ctx context.Context, month, year string) (core.TypeTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, SUM(amount) FROM movements
		 WHERE strftime('%m', date) = ? AND strftime('%Y', date) = ?
		 GROUP BY type`, month, year)
	if err != nil {
		return core.TypeTotals{}, fmt.Errorf("monthly aggregates: %w", err)
	}
	defer rows.Close()

	var totals core.TypeTotals
	for rows.Next() {
		var typ string
		var total float64
		if err := rows.Scan(&typ, &total); err != nil {
			return core.TypeTotals{}, fmt.Errorf("scan monthly aggregate: %w", err)
		}
		addTotal(&totals, typ, total)
	}
	if err := rows.Err(); err != nil {
		return core.TypeTotals{}, fmt.Errorf("iterate monthly aggregates: %w", err)
	}
	return totals, nil
}

// GetYearlyAggregates returns totals per month-of-year for one year. All
// twelve keys "01".."12" are always present, zero-filled when empty.
func (r *SQLiteRepository) GetYearlyAggregates(ctx context.Context, year string) (map[string]core.TypeTotals, error) {
	result := make(map[string]core.TypeTotals, 12)
	for _, m := range core.MonthLabels() {
		result[m] = core.TypeTotals{}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT strftime('%m', date) AS m, type, SUM(amount) FROM movements
		 WHERE strftime('%Y', date) = ?
		 GROUP BY m, type`, year)
	if err != nil {
		return nil, fmt.Errorf("yearly aggregates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var month, typ string
		var total float64
		if err := rows.Scan(&month, &typ, &total); err != nil {
			return nil, fmt.Errorf("scan yearly aggregate: %w", err)
		}
		totals := result[month]
		addTotal(&totals, typ, total)
		result[month] = totals
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate yearly aggregates: %w", err)
	}
	return result, nil
}

// GetDailyAggregates returns totals per day-of-month for one month. Every
// valid calendar day of that month is present, zero-filled when empty;
// the day count follows the actual month length (28/29/30/31).
func (r *SQLiteRepository) GetDailyAggregates(ctx context.Context, month, year string) (map[string]core.TypeTotals, error) {
	start, err := time.Parse(core.DateLayout, year+"-"+month+"-01")
	if err != nil {
		return nil, fmt.Errorf("daily aggregates: %w", core.ErrInvalidDateFormat)
	}
	lastDay := start.AddDate(0, 1, -1).Day()

	result := make(map[string]core.TypeTotals, lastDay)
	for d := 1; d <= lastDay; d++ {
		result[fmt.Sprintf("%02d", d)] = core.TypeTotals{}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT strftime('%d', date) AS d, type, SUM(amount) FROM movements
		 WHERE strftime('%m', date) = ? AND strftime('%Y', date) = ?
		 GROUP BY d, type`, month, year)
	if err != nil {
		return nil, fmt.Errorf("daily aggregates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, typ string
		var total float64
		if err := rows.Scan(&day, &typ, &total); err != nil {
			return nil, fmt.Errorf("scan daily aggregate: %w", err)
		}
		totals := result[day]
		addTotal(&totals, typ, total)
		result[day] = totals
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily aggregates: %w", err)
	}
	return result, nil
}

// GetExpensesByCategory sums expense amounts grouped by category, ordered
// descending by total. An empty year lifts all date restrictions; month
// narrows only when year is also set. Zero totals are not filtered at
// this layer.
func (r *SQLiteRepository) GetExpensesByCategory(ctx context.Context, year, month string) ([]core.CategoryTotal, error) {
	query := `SELECT category, SUM(amount) AS total FROM movements WHERE type = ?`
	args := []any{string(core.TypeExpense)}
	if year != "" {
		query += " AND strftime('%Y', date) = ?"
		args = append(args, year)
		if month != "" {
			query += " AND strftime('%m', date) = ?"
			args = append(args, month)
		}
	}
	query += " GROUP BY category ORDER BY total DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	defer rows.Close()

	var result []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		result = append(result, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return result, nil
}

// GetTopExpenses lists the largest expense movements of one month, ordered
// descending by amount and truncated to limit rows (default 5). A non-empty
// category restricts to exact matches.
func (r *SQLiteRepository) GetTopExpenses(ctx context.Context, month, year string, limit int, category string) ([]core.TopExpense, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT category, description, amount, date FROM movements
		 WHERE type = ? AND strftime('%m', date) = ? AND strftime('%Y', date) = ?`
	args := []any{string(core.TypeExpense), month, year}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY amount DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top expenses: %w", err)
	}
	defer rows.Close()

	var result []core.TopExpense
	for rows.Next() {
		var te core.TopExpense
		var desc sql.NullString
		if err := rows.Scan(&te.Category, &desc, &te.Amount, &te.Date); err != nil {
			return nil, fmt.Errorf("scan top expense: %w", err)
		}
		te.Description = desc.String
		result = append(result, te)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top expenses: %w", err)
	}
	return result, nil
}

// ListYears returns the distinct years with at least one movement,
// newest first.
func (r *SQLiteRepository) ListYears(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT strftime('%Y', date) AS y FROM movements ORDER BY y DESC`)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var years []string
	for rows.Next() {
		var y sql.NullString
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		if y.Valid && y.String != "" {
			years = append(years, y.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate years: %w", err)
	}
	return years, nil
}

func scanMovement(row interface{ Scan(...any) error }) (core.StoredMovement, error) {
	var m core.StoredMovement
	var typ string
	var fxRate sql.NullFloat64
	var desc sql.NullString
	if err := row.Scan(&m.ID, &m.Date, &typ, &m.Amount, &m.Currency, &fxRate, &m.Category, &desc); err != nil {
		return core.StoredMovement{}, err
	}
	m.Type = core.MovementType(typ)
	m.FXRate = fxRate.Float64
	m.Description = desc.String
	return m, nil
}

func addTotal(t *core.TypeTotals, typ string, total float64) {
	switch core.MovementType(typ) {
	case core.TypeIncome:
		t.Income += total
	case core.TypeExpense:
		t.Expense += total
	}
}
