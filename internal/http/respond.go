package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses: validation
// failures are the client's fault, missing records are 404, and upstream
// dependency failures surface as a bad gateway.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDependency):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrNotFound
	}
	return id, nil
}
