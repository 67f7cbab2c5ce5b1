// Package postgres is the pgx-backed ledger.Store implementation, for
// deployments that outgrow the embedded SQLite file.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*Repository, error) {
	if err := RunMigrations(url); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func depErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(core.ErrDependency, err))
}

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY id`)
	if err != nil {
		return nil, depErr("query categories", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, depErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, depErr("iterate categories", err)
	}
	return categories, nil
}

func (r *Repository) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	if err := core.ValidateCategoryName(name); err != nil {
		return core.Category{}, err
	}

	c := core.Category{Name: name}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, created_at`, name).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return core.Category{}, depErr("insert category", err)
	}

	slog.InfoContext(ctx, "Category created", "category_id", c.ID, "name", name)
	return c, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return depErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Category deleted", "category_id", id)
	return nil
}

const transactionColumns = `
	t.id, t.amount_cents, t.type, t.category_id, t.date, t.description,
	t.created_at, COALESCE(c.name, '')`

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
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

func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (amount_cents, type, category_id, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Date.Time, t.Description).Scan(&id)
	if err != nil {
		return core.Transaction{}, depErr("insert transaction", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", id,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents,
		"date", t.Date.String())

	return r.GetTransaction(ctx, id)
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET amount_cents = $1, type = $2, category_id = $3, date = $4, description = $5
		WHERE id = $6`,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Date.Time, t.Description, t.ID)
	if err != nil {
		return core.Transaction{}, depErr("update transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", t.ID)
	return r.GetTransaction(ctx, t.ID)
}

func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return depErr("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

func scanTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		t    core.Transaction
		typ  string
		date time.Time
	)
	err := row.Scan(&t.ID, &t.Amount.Cents, &typ, &t.CategoryID, &date,
		&t.Description, &t.CreatedAt, &t.CategoryName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, depErr("scan transaction", err)
	}
	t.Type = core.TransactionType(typ)
	t.Date = core.DateOf(date)
	return t, nil
}
