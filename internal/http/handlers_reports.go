package http

import (
	"net/http"
	"strconv"
	"strings"
)

// handleReportBalance serves GET /reports/balance?month=MM&year=YYYY,
// the monthly balance with carryover from all preceding months.
func (s *Server) handleReportBalance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	balance, err := s.reports.MonthlyWithCarryover(r.Context(), q.Get("month"), q.Get("year"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// handleReportCategories serves GET /reports/categories with optional
// year and month filters. Month only narrows when year is also given.
func (s *Server) handleReportCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	totals, err := s.reports.ExpensesByCategory(r.Context(), q.Get("year"), q.Get("month"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// handleReportTopExpenses serves GET /reports/top-expenses for one
// month. limit defaults to 5; category narrows to an exact label.
func (s *Server) handleReportTopExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	top, err := s.reports.TopExpenses(r.Context(), q.Get("month"), q.Get("year"), limit, q.Get("category"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

// handleReportYearly serves GET /reports/yearly?year=YYYY with the
// twelve-month series, nets, grand totals and the category ranking.
func (s *Server) handleReportYearly(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.YearlySummary(r.Context(), r.URL.Query().Get("year"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleReportDaily serves GET /reports/daily?month=MM&year=YYYY, day
// by day totals for one month.
func (s *Server) handleReportDaily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	series, err := s.reports.DailySeries(r.Context(), q.Get("month"), q.Get("year"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// handleReportYears serves GET /reports/years, the distinct years that
// have at least one movement, newest first.
func (s *Server) handleReportYears(w http.ResponseWriter, r *http.Request) {
	years, err := s.years.ListYears(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if years == nil {
		years = []string{}
	}
	writeJSON(w, http.StatusOK, years)
}

// handleFXLatest serves GET /fx/latest with current exchange rates for
// the configured base currency. Optional base and symbols (comma
// separated) query parameters override the defaults.
func (s *Server) handleFXLatest(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange rate lookups are disabled")
		return
	}

	q := r.URL.Query()
	base := q.Get("base")
	if base == "" {
		base = s.baseCurrency
	}
	var symbols []string
	if raw := q.Get("symbols"); raw != "" {
		symbols = splitSymbols(raw)
	}

	latest, err := s.rates.Fetch(r.Context(), base, symbols)
	if err != nil {
		writeError(w, http.StatusBadGateway, "exchange rate providers unavailable")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func splitSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
