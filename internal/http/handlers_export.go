package http

import (
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
)

// handleExport streams the transaction list as CSV. The same filter
// predicates as the list endpoint apply, so what you see is what you export.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	transactions, err := s.store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	transactions = core.ApplyFilter(transactions, filter)

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteCSV(w, transactions); err != nil {
		// Headers are already out; all we can do is log.
		log.FromContext(r.Context()).ErrorContext(r.Context(), "csv export failed",
			log.FieldOperation, log.OpExport, log.FieldError, err)
	}
}
