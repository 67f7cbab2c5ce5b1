// Package storage is the SQLite ledger.Store implementation plus the sync
// queue the sheets worker drains.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// depErr classifies a driver failure under the dependency error root while
// keeping the original chain intact.
func depErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(core.ErrDependency, err))
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY id`)
	if err != nil {
		return nil, depErr("query categories", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var (
			c         core.Category
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, depErr("scan category", err)
		}
		c.CreatedAt = parseStoredTime(createdAt)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, depErr("iterate categories", err)
	}
	return categories, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (name, created_at)
		VALUES (?, ?)`,
		name, formatStoredTime(now))
	if err != nil {
		return core.Category{}, depErr("insert category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, depErr("category insert id", err)
	}

	slog.InfoContext(ctx, "Category created", "category_id", id, "name", name)
	return core.Category{ID: id, Name: name, CreatedAt: now}, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return depErr("delete category", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return depErr("delete category result", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	// Transactions referencing this category keep their dangling id; reads
	// resolve the name to the uncategorized label.
	slog.InfoContext(ctx, "Category deleted", "category_id", id)
	return nil
}

const transactionColumns = `
	t.id, t.amount_cents, t.type, t.category_id, t.date, t.description,
	t.created_at, COALESCE(c.name, '')`

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, depErr("query transactions", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, depErr("iterate transactions", err)
	}
	return transactions, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (amount_cents, type, category_id, date, description, created_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?, 'pending')`,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Date.String(), t.Description, formatStoredTime(now))
	if err != nil {
		return core.Transaction{}, depErr("insert transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, depErr("transaction insert id", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", id,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	return r.GetTransaction(ctx, id)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, type = ?, category_id = ?, date = ?, description = ?,
		    sync_status = 'pending', synced_at = NULL
		WHERE id = ?`,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Date.String(), t.Description, t.ID)
	if err != nil {
		return core.Transaction{}, depErr("update transaction", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, depErr("update transaction result", err)
	}
	if affected == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", t.ID)
	return r.GetTransaction(ctx, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return depErr("delete transaction", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return depErr("delete transaction result", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// PendingSync identifies a transaction the sheets worker still has to push.
type PendingSync struct {
	ID        int64
	CreatedAt time.Time
}

// ListPendingSync returns up to limit transactions awaiting sync, oldest
// first.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at
		FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY created_at ASC, id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, depErr("query pending sync", err)
	}
	defer rows.Close()

	var pending []PendingSync
	for rows.Next() {
		var (
			p         PendingSync
			createdAt string
		)
		if err := rows.Scan(&p.ID, &createdAt); err != nil {
			return nil, depErr("scan pending sync", err)
		}
		p.CreatedAt = parseStoredTime(createdAt)
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, depErr("iterate pending sync", err)
	}
	return pending, nil
}

// MarkSynced records a successful push to the export sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET sync_status = 'synced', synced_at = ?
		WHERE id = ?`,
		formatStoredTime(time.Now().UTC()), id)
	if err != nil {
		return depErr("mark synced", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "transaction_id", id)
	return nil
}

// MarkSyncError flags a transaction whose push failed; the poller retries it
// only after manual reset, messages do not.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET sync_status = 'error'
		WHERE id = ?`, id)
	if err != nil {
		return depErr("mark sync error", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "transaction_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		typ       string
		date      string
		createdAt string
	)
	err := row.Scan(&t.ID, &t.Amount.Cents, &typ, &t.CategoryID, &date,
		&t.Description, &createdAt, &t.CategoryName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, depErr("scan transaction", err)
	}
	t.Type = core.TransactionType(typ)
	if d, perr := time.Parse("2006-01-02", date); perr == nil {
		t.Date = core.DateOf(d)
	}
	t.CreatedAt = parseStoredTime(createdAt)
	return t, nil
}

func formatStoredTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
