package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func createTx(t *testing.T, repo *SQLiteRepository, categoryID int64, day int, amount int64) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Amount:      core.Money{Cents: amount},
		Type:        core.Expense,
		CategoryID:  categoryID,
		Date:        core.NewDate(2025, 3, day),
		Description: "test",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

func TestCategoryLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	food, err := repo.CreateCategory(ctx, "Food")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if food.ID == 0 {
		t.Fatal("missing id")
	}

	if _, err := repo.CreateCategory(ctx, "  "); !errors.Is(err, core.ErrEmptyCategoryName) {
		t.Fatalf("blank name: got %v", err)
	}

	// Duplicate names get their own rows.
	if _, err := repo.CreateCategory(ctx, "Food"); err != nil {
		t.Fatalf("duplicate name: %v", err)
	}
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("category count = %d", len(categories))
	}

	if err := repo.DeleteCategory(ctx, food.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := repo.DeleteCategory(ctx, food.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("double delete: got %v", err)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	food, _ := repo.CreateCategory(ctx, "Food")

	created := createTx(t, repo, food.ID, 14, 4550)
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("not fully populated: %+v", created)
	}
	if created.CategoryName != "Food" {
		t.Fatalf("category name = %q", created.CategoryName)
	}
	if created.Date.String() != "2025-03-14" {
		t.Fatalf("date = %s", created.Date)
	}

	updated, err := repo.UpdateTransaction(ctx, core.Transaction{
		ID:          created.ID,
		Amount:      core.Money{Cents: 5000},
		Type:        core.Income,
		CategoryID:  food.ID,
		Date:        created.Date,
		Description: "corrected",
	})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if updated.Amount.Cents != 5000 || updated.Type != core.Income || updated.Description != "corrected" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := repo.UpdateTransaction(ctx, core.Transaction{
		ID: 999, Amount: core.Money{Cents: 1}, Type: core.Expense,
		CategoryID: food.ID, Date: created.Date,
	}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: got %v", err)
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get after delete: got %v", err)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateTransaction(ctx, core.Transaction{
		Amount: core.Money{Cents: 0}, Type: core.Expense,
		CategoryID: 1, Date: core.NewDate(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}

	transactions, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(transactions) != 0 {
		t.Fatal("rejected transaction was stored")
	}
}

func TestListTransactionsOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	food, _ := repo.CreateCategory(ctx, "Food")

	first := createTx(t, repo, food.ID, 5, 100)
	second := createTx(t, repo, food.ID, 20, 200)
	third := createTx(t, repo, food.ID, 1, 300)

	transactions, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	want := []int64{second.ID, first.ID, third.ID}
	for i, tx := range transactions {
		if tx.ID != want[i] {
			t.Fatalf("order[%d] = %d, want %d", i, tx.ID, want[i])
		}
	}
}

func TestDanglingCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	food, _ := repo.CreateCategory(ctx, "Food")
	created := createTx(t, repo, food.ID, 10, 100)

	if err := repo.DeleteCategory(ctx, food.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.CategoryName != "" {
		t.Fatalf("dangling name = %q, want empty", got.CategoryName)
	}
	if got.CategoryID != food.ID {
		t.Fatal("category id must survive")
	}
}

func TestSyncStatusFlow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	food, _ := repo.CreateCategory(ctx, "Food")

	first := createTx(t, repo, food.ID, 1, 100)
	second := createTx(t, repo, food.ID, 2, 200)

	pending, err := repo.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if err := repo.MarkSynced(ctx, first.ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, second.ID); err != nil {
		t.Fatalf("MarkSyncError: %v", err)
	}

	pending, err = repo.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	// Synced and errored rows both leave the pending set.
	if len(pending) != 0 {
		t.Fatalf("pending = %d, want 0", len(pending))
	}

	// An update re-queues the row.
	if _, err := repo.UpdateTransaction(ctx, core.Transaction{
		ID: first.ID, Amount: core.Money{Cents: 150}, Type: core.Expense,
		CategoryID: food.ID, Date: core.NewDate(2025, 3, 1),
	}); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	pending, _ = repo.ListPendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].ID != first.ID {
		t.Fatalf("pending after update = %+v", pending)
	}
}

func TestListPendingSyncLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	food, _ := repo.CreateCategory(ctx, "Food")

	for day := 1; day <= 5; day++ {
		createTx(t, repo, food.ID, day, 100)
	}

	pending, err := repo.ListPendingSync(ctx, 3)
	if err != nil {
		t.Fatalf("ListPendingSync: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("pending = %d, want 3", len(pending))
	}
}
