package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
	gsheet "fintrack/internal/sheets/google"
	memsheet "fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("sqlite initialization failed",
			log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The sheet target defaults to in-memory so the worker can run without
	// Google credentials; pending rows then only live for this process.
	var sheet sheets.RowAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("sheets initialization failed", log.FieldError, err)
			os.Exit(1)
		}
		sheet = client
		logger.Info("using google sheets export target",
			"spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		sheet = memsheet.New()
		logger.Warn("no spreadsheet configured, using in-memory sheet")
	}

	syncWorker := worker.NewSyncWorker(repo, sheet, cfg.SyncBatchSize, cfg.SyncInterval)

	group, ctx := errgroup.WithContext(ctx)

	// The poller alone is a complete worker; AMQP only shortens the latency
	// between a save and its sheet row.
	group.Go(func() error {
		return syncWorker.RunPoller(ctx)
	})

	if cfg.AMQPURL != "" {
		queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("amqp connection failed", log.FieldError, err)
			os.Exit(1)
		}
		defer queue.Close()

		group.Go(func() error {
			return queue.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
				return syncWorker.HandleSyncMessage(ctx, msg)
			})
		})
		logger.Info("consuming sync messages",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Warn("no amqp configured, polling only")
	}

	logger.Info("sync worker started",
		"batch_size", cfg.SyncBatchSize, "interval", cfg.SyncInterval.String())

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
