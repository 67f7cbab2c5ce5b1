// Package ledger defines the ports the core consumes for persistence.
// Implementations live in storage (sqlite), postgres and memstore.
package ledger

import (
	"context"

	"fintrack/internal/core"
)

type (
	// CategoryStore owns category records. Deleting a category never
	// touches transactions referencing it; their category id dangles and
	// reads resolve the name to the uncategorized sentinel.
	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, name string) (core.Category, error)
		DeleteCategory(ctx context.Context, id int64) error
	}

	// TransactionStore owns transaction records. Writes validate the
	// transaction invariants before committing; a violation fails with a
	// validation error and performs no partial write.
	TransactionStore interface {
		// ListTransactions returns all transactions, newest first
		// (date descending, creation time descending), with the
		// category name denormalized onto each record.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	// Store is the combined persistence surface a backend provides.
	Store interface {
		CategoryStore
		TransactionStore
	}
)
