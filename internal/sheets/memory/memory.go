// Package memory is an in-process RowAppender used in tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/export"
)

type Sheet struct {
	mu   sync.Mutex
	rows []export.Row
}

func New() *Sheet {
	return &Sheet{}
}

// AppendRow stores the row and returns a synthetic row reference.
func (s *Sheet) AppendRow(_ context.Context, row export.Row) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sheet) Rows() []export.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]export.Row, len(s.rows))
	copy(out, s.rows)
	return out
}
