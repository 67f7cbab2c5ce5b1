package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// transactionRequest is the write payload. Exactly one of category_id and
// new_category_name must be set; a new name creates the category atomically
// with the save.
type transactionRequest struct {
	Amount          core.Money           `json:"amount"`
	Type            core.TransactionType `json:"type"`
	CategoryID      int64                `json:"category_id,omitempty"`
	NewCategoryName string               `json:"new_category_name,omitempty"`
	Date            core.Date            `json:"date"`
	Description     string               `json:"description"`
}

// saveResponse echoes the committed transaction, plus the category when one
// was created inline.
type saveResponse struct {
	Transaction     core.Transaction `json:"transaction"`
	CreatedCategory *core.Category   `json:"created_category,omitempty"`
}

type transactionList struct {
	Transactions []core.Transaction `json:"transactions"`
	Total        int                `json:"total"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, transactionList{
		Transactions: transactions,
		Total:        len(transactions),
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	s.saveTransaction(w, r, 0)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.saveTransaction(w, r, id)
}

func (s *Server) saveTransaction(w http.ResponseWriter, r *http.Request, id int64) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrValidation, err))
		return
	}

	result, err := s.transactions.Save(r.Context(), services.SaveRequest{
		ID:          id,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    core.CategoryRefFrom(req.CategoryID, req.NewCategoryName),
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports()

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, saveResponse{
		Transaction:     result.Transaction,
		CreatedCategory: result.CreatedCategory,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}

// filterFromQuery reads the list predicates from the query string. An
// unparsable category_id is a client error rather than an empty result.
func filterFromQuery(r *http.Request) (core.Filter, error) {
	filter := core.Filter{Search: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return core.Filter{}, fmt.Errorf("%w: invalid category_id %q", core.ErrValidation, raw)
		}
		filter.CategoryID = id
	}
	return filter, nil
}
