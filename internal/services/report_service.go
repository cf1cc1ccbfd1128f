package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

var (
	// ErrInvalidMonth marks a report request whose month is not "01".."12".
	ErrInvalidMonth = errors.New("invalid month, use MM between 01 and 12")
	// ErrInvalidYear marks a report request whose year is not a number.
	ErrInvalidYear = errors.New("invalid year, use YYYY")
)

// ReportService derives financial summaries from the ledger store's raw
// aggregates. It is stateless: every call is an independent computation
// over the current store contents.
type ReportService struct {
	repo AggregateReader
}

func NewReportService(repo AggregateReader) *ReportService {
	return &ReportService{repo: repo}
}

// MonthlyWithCarryover returns one month's totals together with the
// previous calendar month's net and the cumulative net of the year
// through the requested month. January's carryover comes from December
// of the previous year.
func (s *ReportService) MonthlyWithCarryover(ctx context.Context, month, year string) (core.MonthlyBalance, error) {
	monthNum, yearNum, err := parseMonthYear(month, year)
	if err != nil {
		return core.MonthlyBalance{}, err
	}

	// Bucket keys are always zero-padded; the supplied strings are echoed
	// back in the result untouched.
	monthKey := fmt.Sprintf("%02d", monthNum)

	current, err := s.repo.GetMonthlyAggregates(ctx, monthKey, year)
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("current month aggregates: %w", err)
	}

	prevMonth, prevYear := monthNum-1, yearNum
	if prevMonth == 0 {
		prevMonth = 12
		prevYear = yearNum - 1
	}
	previous, err := s.repo.GetMonthlyAggregates(ctx, fmt.Sprintf("%02d", prevMonth), strconv.Itoa(prevYear))
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("previous month aggregates: %w", err)
	}

	yearly, err := s.repo.GetYearlyAggregates(ctx, year)
	if err != nil {
		return core.MonthlyBalance{}, fmt.Errorf("yearly aggregates: %w", err)
	}
	var cumulative float64
	for _, m := range core.MonthLabels() {
		cumulative += yearly[m].Net()
		if m == monthKey {
			break
		}
	}

	return core.MonthlyBalance{
		Month:         month,
		Year:          year,
		Income:        current.Income,
		Expenses:      current.Expense,
		Net:           current.Net(),
		PreviousNet:   previous.Net(),
		CumulativeNet: cumulative,
	}, nil
}

// ExpensesByCategory ranks expense totals per category, descending.
// An empty year lifts all date restrictions; month narrows only when
// year is also given. Rows whose total is exactly zero are dropped.
func (s *ReportService) ExpensesByCategory(ctx context.Context, year, month string) ([]core.CategoryTotal, error) {
	if month != "" {
		monthNum, err := strconv.Atoi(month)
		if err != nil || monthNum < 1 || monthNum > 12 {
			return nil, ErrInvalidMonth
		}
		month = fmt.Sprintf("%02d", monthNum)
	}
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
			return nil, ErrInvalidYear
		}
	}
	rows, err := s.repo.GetExpensesByCategory(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}

	filtered := make([]core.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		if row.Total == 0 {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered, nil
}

// TopExpenses lists the largest expense movements of one month, ordered
// descending by amount and truncated to limit (default 5).
func (s *ReportService) TopExpenses(ctx context.Context, month, year string, limit int, category string) ([]core.TopExpense, error) {
	monthNum, _, err := parseMonthYear(month, year)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.repo.GetTopExpenses(ctx, fmt.Sprintf("%02d", monthNum), year, limit, category)
	if err != nil {
		return nil, fmt.Errorf("top expenses: %w", err)
	}
	return rows, nil
}

// YearlySeries returns the twelve month labels with aligned income and
// expense totals, in month order.
func (s *ReportService) YearlySeries(ctx context.Context, year string) (core.YearlySeries, error) {
	if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
		return core.YearlySeries{}, ErrInvalidYear
	}
	yearly, err := s.repo.GetYearlyAggregates(ctx, year)
	if err != nil {
		return core.YearlySeries{}, fmt.Errorf("yearly aggregates: %w", err)
	}

	months := core.MonthLabels()
	series := core.YearlySeries{
		Months:   months,
		Income:   make([]float64, len(months)),
		Expenses: make([]float64, len(months)),
	}
	for i, m := range months {
		series.Income[i] = yearly[m].Income
		series.Expenses[i] = yearly[m].Expense
	}
	return series, nil
}

// YearlySummary extends the yearly series with per-month nets, yearly
// totals and a year-scoped zero-filtered category ranking. A failing
// category lookup degrades to an empty ranking; the summary itself never
// fails for that reason alone.
func (s *ReportService) YearlySummary(ctx context.Context, year string) (core.YearlySummary, error) {
	series, err := s.YearlySeries(ctx, year)
	if err != nil {
		return core.YearlySummary{}, err
	}

	summary := core.YearlySummary{
		YearlySeries:       series,
		Nets:               make([]float64, len(series.Months)),
		ExpensesByCategory: []core.CategoryTotal{},
	}
	for i := range series.Months {
		summary.Nets[i] = series.Income[i] - series.Expenses[i]
		summary.TotalIncome += series.Income[i]
		summary.TotalExpenses += series.Expenses[i]
	}
	summary.TotalNet = summary.TotalIncome - summary.TotalExpenses

	categories, err := s.ExpensesByCategory(ctx, year, "")
	if err != nil {
		slog.WarnContext(ctx, "Category breakdown failed, returning empty ranking",
			"year", year, "error", err)
	} else {
		summary.ExpensesByCategory = categories
	}

	return summary, nil
}

// DailySeries returns ascending day labels with aligned income and
// expense totals for one month. String sort is safe: day labels are
// zero-padded two digits.
func (s *ReportService) DailySeries(ctx context.Context, month, year string) (core.DailySeries, error) {
	monthNum, _, err := parseMonthYear(month, year)
	if err != nil {
		return core.DailySeries{}, err
	}
	daily, err := s.repo.GetDailyAggregates(ctx, fmt.Sprintf("%02d", monthNum), year)
	if err != nil {
		return core.DailySeries{}, fmt.Errorf("daily aggregates: %w", err)
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)

	series := core.DailySeries{
		Days:     days,
		Income:   make([]float64, len(days)),
		Expenses: make([]float64, len(days)),
	}
	for i, d := range days {
		series.Income[i] = daily[d].Income
		series.Expenses[i] = daily[d].Expense
	}
	return series, nil
}

func parseMonthYear(month, year string) (int, int, error) {
	monthNum, err := strconv.Atoi(month)
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, ErrInvalidMonth
	}
	yearNum, err := strconv.Atoi(year)
	if err != nil || yearNum <= 0 || len(year) != 4 {
		return 0, 0, ErrInvalidYear
	}
	return monthNum, yearNum, nil
}
