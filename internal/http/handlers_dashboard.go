package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// handleDashboard computes the report for the requested month, defaulting
// to the current one. Reports are cached per period and invalidated on
// every write.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := fmt.Sprintf("%04d-%02d", period.Year, period.Month)
	if report, ok := s.reportCache.Get(key); ok {
		s.logger.DebugContext(r.Context(), "dashboard cache hit",
			log.FieldYear, period.Year, log.FieldMonth, period.Month)
		writeJSON(w, http.StatusOK, report)
		return
	}

	transactions, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	report := core.BuildReport(transactions, categories, period, s.recentLimit)
	s.reportCache.Set(key, report)
	writeJSON(w, http.StatusOK, report)
}

func periodFromQuery(r *http.Request) (core.Period, error) {
	now := time.Now()
	period := core.Period{Year: now.Year(), Month: int(now.Month())}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return core.Period{}, fmt.Errorf("%w: invalid year %q", core.ErrValidation, raw)
		}
		period.Year = year
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			return core.Period{}, fmt.Errorf("%w: invalid month %q", core.ErrValidation, raw)
		}
		period.Month = month
	}

	if err := period.Validate(); err != nil {
		return core.Period{}, err
	}
	return period, nil
}
