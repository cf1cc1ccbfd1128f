package core

// TypeTotals is a pair of summed amounts, one per movement type. Buckets
// with no matching movements still produce a zero-valued pair, so report
// consumers never have to special-case missing keys.
type TypeTotals struct {
	Income  float64
	Expense float64
}

// Net returns income minus expense.
func (t TypeTotals) Net() float64 {
	return t.Income - t.Expense
}

// MonthlyBalance carries a month's totals together with the previous
// month's net (carryover) and the year-to-date cumulative net through the
// requested month. JSON keys are the Spanish field names API consumers expect.
type MonthlyBalance struct {
	Month         string  `json:"month"`
	Year          string  `json:"year"`
	Income        float64 `json:"ingresos"`
	Expenses      float64 `json:"gastos"`
	Net           float64 `json:"neto"`
	PreviousNet   float64 `json:"previous_net"`
	CumulativeNet float64 `json:"cumulative_net"`
}

// CategoryTotal is one row of an expense-by-category ranking.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// TopExpense is one row of a top-expenses report.
type TopExpense struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

// YearlySeries holds three aligned sequences: month labels "01".."12" and
// the income/expense totals per month.
type YearlySeries struct {
	Months   []string  `json:"months"`
	Income   []float64 `json:"ingresos"`
	Expenses []float64 `json:"gastos"`
}

// YearlySummary extends YearlySeries with per-month nets, yearly totals
// and a year-scoped category ranking.
type YearlySummary struct {
	YearlySeries
	Nets               []float64       `json:"netos"`
	TotalIncome        float64         `json:"total_ingresos"`
	TotalExpenses      float64         `json:"total_gastos"`
	TotalNet           float64         `json:"total_neto"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
}

// DailySeries holds aligned day labels ("01".."31") and totals for one month.
type DailySeries struct {
	Days     []string  `json:"days"`
	Income   []float64 `json:"ingresos"`
	Expenses []float64 `json:"gastos"`
}

// Category is a lookup entry used to suggest labels in the UI and CLI.
// It is a separate entity from movements and has its own CRUD surface.
type Category struct {
	ID   int64        `json:"id"`
	Type MovementType `json:"type"`
	Name string       `json:"name"`
	Icon string       `json:"icon,omitempty"`
}

// Criteria filters a movement listing. Zero values mean "no filter";
// dates are inclusive bounds in DateLayout form, Category matches as a
// case-sensitive substring.
type Criteria struct {
	DateFrom string
	DateTo   string
	Category string
}

// MonthLabels returns the twelve zero-padded month keys in order.
func MonthLabels() []string {
	return []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}
}
