package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"findash/internal/amqp"
	"findash/internal/core"
	"findash/internal/sheets"
	"findash/internal/storage"
)

// SyncWorker mirrors ledger events into a spreadsheet.
type SyncWorker struct {
	storage storage.Store
	mirror  sheets.LedgerMirror
}

func NewSyncWorker(store storage.Store, mirror sheets.LedgerMirror) *SyncWorker {
	return &SyncWorker{storage: store, mirror: mirror}
}

// HandleLedgerEvent applies one event to the mirror. Returning an error
// makes the consumer requeue the message.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"action", ev.Action,
		"transaction_id", ev.TransactionID)

	switch ev.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		return w.syncTransaction(ctx, ev)
	case amqp.ActionDeleted:
		if err := w.mirror.Remove(ctx, ev.TransactionID); err != nil {
			return fmt.Errorf("remove %s from mirror: %w", ev.TransactionID, err)
		}
		return nil
	case amqp.ActionReset:
		return w.FullSync(ctx)
	default:
		slog.WarnContext(ctx, "Ignoring unknown ledger event", "action", ev.Action)
		return nil
	}
}

func (w *SyncWorker) syncTransaction(ctx context.Context, ev *amqp.LedgerEvent) error {
	// Prefer the stored row: a later update may already have replaced the snapshot.
	t, err := w.storage.GetTransaction(ctx, ev.TransactionID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		slog.InfoContext(ctx, "Transaction no longer exists, skipping", "transaction_id", ev.TransactionID)
		return nil
	case err != nil && ev.Transaction != nil:
		slog.WarnContext(ctx, "Store unavailable, mirroring event snapshot", "error", err)
		t = ev.Transaction.Transaction()
	case err != nil:
		return fmt.Errorf("get transaction %s: %w", ev.TransactionID, err)
	}

	if err := w.mirror.Upsert(ctx, t); err != nil {
		return fmt.Errorf("mirror transaction %s: %w", t.ID, err)
	}
	return nil
}

// FullSync rewrites the mirror from the store. It runs on startup, after a
// reset or reseed, and periodically to repair missed events.
func (w *SyncWorker) FullSync(ctx context.Context) error {
	start := time.Now()
	txs, err := w.storage.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if err := w.mirror.ReplaceAll(ctx, txs); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	slog.InfoContext(ctx, "Full mirror sync complete",
		"rows", len(txs),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RunPeriodicSync calls FullSync every interval until ctx ends.
func (w *SyncWorker) RunPeriodicSync(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.FullSync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}
