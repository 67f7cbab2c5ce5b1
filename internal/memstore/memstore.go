// Package memstore is the in-memory ledger.Store implementation: the
// default backend for local runs and the test double everywhere else.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

type Store struct {
	mu           sync.Mutex
	nextCategory int64
	nextTx       int64
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction

	now func() time.Time
}

func New() *Store {
	return &Store{
		categories:   make(map[int64]core.Category),
		transactions: make(map[int64]core.Transaction),
		now:          time.Now,
	}
}

// Seed creates the given categories up front and returns them with ids
// assigned. Used by local runs and tests.
func (s *Store) Seed(ctx context.Context, names ...string) ([]core.Category, error) {
	out := make([]core.Category, 0, len(names))
	for _, name := range names {
		c, err := s.CreateCategory(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, name string) (core.Category, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCategory++
	c := core.Category{
		ID:        s.nextCategory,
		Name:      name,
		CreatedAt: s.now(),
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return core.ErrNotFound
	}
	// Referencing transactions are left untouched; their category id
	// dangles and reads fall back to the uncategorized label.
	delete(s.categories, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, s.resolveLocked(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.resolveLocked(t), nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTx++
	t.ID = s.nextTx
	t.CreatedAt = s.now()
	s.transactions[t.ID] = t
	return s.resolveLocked(t), nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.transactions[t.ID]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	t.CreatedAt = existing.CreatedAt
	s.transactions[t.ID] = t
	return s.resolveLocked(t), nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) resolveLocked(t core.Transaction) core.Transaction {
	if c, ok := s.categories[t.CategoryID]; ok {
		t.CategoryName = c.Name
	} else {
		t.CategoryName = ""
	}
	return t
}
