package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fintrack/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryList struct {
	Categories []core.Category `json:"categories"`
	Total      int             `json:"total"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryList{
		Categories: categories,
		Total:      len(categories),
	})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrValidation, err))
		return
	}
	if err := core.ValidateCategoryName(req.Name); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.store.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleDeleteCategory deletes the category only. Transactions referencing
// it keep their category id; reads resolve the name to the uncategorized
// label from then on.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}
