package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/memstore"
	"fintrack/internal/postgres"
	"fintrack/internal/storage"
)

// Factory creates backends based on configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) Create(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLite(config)
	case PostgresBackend:
		return f.createPostgres(ctx, config)
	default:
		return f.createMemory(ctx)
	}
}

func (f *Factory) createSQLite(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	var queue *amqp.Client
	if config.AMQPURL != "" {
		queue, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			// Saves still land in SQLite; the worker's poller catches up
			// once the broker is reachable again.
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync publishing", "error", err)
			queue = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	cleanup := func() error {
		if queue != nil {
			if err := queue.Close(); err != nil {
				f.logger.Warn("Failed to close AMQP client", "error", err)
			}
		}
		return repo.Close()
	}

	return &Result{Store: repo, Queue: queue, Cleanup: cleanup}, nil
}

func (f *Factory) createPostgres(ctx context.Context, config Config) (*Result, error) {
	if config.PostgresURL == "" {
		return nil, fmt.Errorf("postgres backend requires POSTGRES_URL")
	}

	repo, err := postgres.New(ctx, config.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres repository: %w", err)
	}

	if config.AMQPURL != "" {
		f.logger.Warn("Sheet sync requires the sqlite backend, ignoring AMQP configuration")
	}

	return &Result{Store: repo, Cleanup: repo.Close}, nil
}

func (f *Factory) createMemory(ctx context.Context) (*Result, error) {
	store := memstore.New()
	if _, err := store.Seed(ctx, "Food", "Transport", "Housing", "Salary"); err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	f.logger.Info("Initialized memory backend")
	return &Result{Store: store, Cleanup: func() error { return nil }}, nil
}
