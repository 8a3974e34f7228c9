package http

import (
	"net/http"
	"regexp"
	"strings"

	"moneytrack/internal/core"
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.tracker.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// handleDailyReport serves one day's report; the date param defaults to today.
func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date := s.tracker.Today()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := s.tracker.DailyReport(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleMonthlyReport serves one month's report; the month param defaults to
// the current month.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month := s.tracker.Today().YearMonth()
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if !yearMonthPattern.MatchString(v) {
			writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		month = v
	}

	report, err := s.tracker.MonthlyReport(r.Context(), month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
