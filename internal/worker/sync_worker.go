// Package worker pushes saved transactions from SQLite to the export sheet.
// It drains AMQP sync messages and, as a safety net, polls for pending rows
// whose messages were lost.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

type SyncWorker struct {
	storage      *storage.SQLiteRepository
	sheet        sheets.RowAppender
	batchSize    int
	pollInterval time.Duration
}

func NewSyncWorker(repo *storage.SQLiteRepository, sheet sheets.RowAppender, batchSize int, pollInterval time.Duration) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &SyncWorker{
		storage:      repo,
		sheet:        sheet,
		batchSize:    batchSize,
		pollInterval: pollInterval,
	}
}

// HandleSyncMessage processes one AMQP sync message. The authoritative row
// is read from storage; a transaction deleted before its message arrived is
// acked and skipped.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction gone before sync, skipping",
			"transaction_id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	return w.syncTransaction(ctx, tx)
}

// RunPoller periodically re-syncs pending transactions until the context is
// canceled.
func (w *SyncWorker) RunPoller(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Sync poller started",
		"interval", w.pollInterval,
		"batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Sync poller stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			synced, err := w.SyncPending(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Pending sync pass failed", "error", err)
				continue
			}
			if synced > 0 {
				slog.InfoContext(ctx, "Pending sync pass completed", "synced", synced)
			}
		}
	}
}

// SyncPending pushes one batch of pending transactions and returns how many
// were synced.
func (w *SyncWorker) SyncPending(ctx context.Context) (int, error) {
	pending, err := w.storage.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending sync: %w", err)
	}

	synced := 0
	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.ID)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			return synced, fmt.Errorf("get transaction %d: %w", p.ID, err)
		}
		if err := w.syncTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction",
				"transaction_id", tx.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, tx core.Transaction) error {
	row := export.FromTransaction(tx)

	ref, err := w.sheet.AppendRow(ctx, row)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"transaction_id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append row: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction synced to export sheet",
		"transaction_id", tx.ID,
		"sheet_ref", ref)
	return nil
}
