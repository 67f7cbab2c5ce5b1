// Package services orchestrates writes across the ledger store and the
// async sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// SyncPublisher publishes sync notifications for saved transactions.
// Publishing is best-effort; a failure never fails the save.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
}

// TransactionService validates and commits transaction saves, including the
// inline create-category-then-attach path.
type TransactionService struct {
	store ledger.Store
	queue SyncPublisher
}

func NewTransactionService(store ledger.Store, queue SyncPublisher) *TransactionService {
	return &TransactionService{store: store, queue: queue}
}

// SaveRequest carries the transaction fields plus the category reference.
// A zero ID means create; a set ID means update.
type SaveRequest struct {
	ID          int64
	Amount      core.Money
	Type        core.TransactionType
	Category    core.CategoryRef
	Date        core.Date
	Description string
}

// SaveResult returns the authoritative post-write state so callers can
// update caches without a refetch.
type SaveResult struct {
	Transaction     core.Transaction
	CreatedCategory *core.Category
}

// Save validates the request, resolves the category reference (creating the
// category first when a new name is supplied) and commits the transaction.
//
// Ordering is category first, transaction second. A category-creation
// failure aborts the whole save; a transaction failure after a successful
// category creation leaves the new category behind. That asymmetry is
// deliberate and matches the at-least-once category side effect the callers
// expect.
func (s *TransactionService) Save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	if err := s.validate(req); err != nil {
		return SaveResult{}, err
	}

	var result SaveResult

	categoryID, existing := req.Category.Existing()
	if !existing {
		name, _ := req.Category.New()
		created, err := s.store.CreateCategory(ctx, name)
		if err != nil {
			return SaveResult{}, fmt.Errorf("create category: %w", err)
		}
		slog.InfoContext(ctx, "Category created inline",
			"category_id", created.ID,
			"name", created.Name)
		categoryID = created.ID
		result.CreatedCategory = &created
	}

	tx := core.Transaction{
		ID:          req.ID,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  categoryID,
		Date:        req.Date,
		Description: req.Description,
	}

	var (
		saved core.Transaction
		err   error
	)
	if req.ID == 0 {
		saved, err = s.store.CreateTransaction(ctx, tx)
	} else {
		saved, err = s.store.UpdateTransaction(ctx, tx)
	}
	if err != nil {
		return SaveResult{}, fmt.Errorf("save transaction: %w", err)
	}
	result.Transaction = saved

	s.publishSync(ctx, saved.ID)
	return result, nil
}

// Delete removes a transaction. The category it referenced is never touched.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// validate fails fast on everything checkable before any write, so a bad
// amount or date never creates a category as a side effect.
func (s *TransactionService) validate(req SaveRequest) error {
	if err := req.Amount.Validate(); err != nil {
		return err
	}
	if !req.Type.Valid() {
		return core.ErrInvalidType
	}
	if err := req.Date.Validate(); err != nil {
		return err
	}
	if len(req.Description) > 255 {
		return core.ErrDescriptionTooLong
	}
	return req.Category.Validate()
}

func (s *TransactionService) publishSync(ctx context.Context, id int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishTransactionSync(ctx, id); err != nil {
		// The save already committed; the poller picks the row up later.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", id, "error", err)
	}
}
