// Package worker mirrors locally written records to the backup target.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/amqp"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/export"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/storage"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/store"
)

// SyncWorker consumes record sync messages and also sweeps the database for
// pending rows the broker may have dropped.
type SyncWorker struct {
	storage   *storage.Repository
	backup    export.BackupWriter
	batchSize int
}

func NewSyncWorker(storage *storage.Repository, backup export.BackupWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		backup:    backup,
		batchSize: batchSize,
	}
}

// HandleMessage processes one sync message. A returned error requeues the
// message; records that no longer exist locally are dropped.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	switch {
	case msg.Kind == amqp.KindDayLog && msg.Op == amqp.OpUpsert:
		return w.syncDayLog(ctx, msg.ID)
	case msg.Kind == amqp.KindSpendItem && msg.Op == amqp.OpUpsert:
		return w.syncSpendItem(ctx, msg.ID)
	case msg.Kind == amqp.KindSpendItem && msg.Op == amqp.OpDelete:
		return w.backup.MarkSpendItemDeleted(ctx, msg.ID)
	default:
		slog.WarnContext(ctx, "Dropping message with unknown kind or op",
			"kind", msg.Kind, "op", msg.Op, "id", msg.ID)
		return nil
	}
}

func (w *SyncWorker) syncDayLog(ctx context.Context, id int64) error {
	row, err := w.storage.GetDayLogByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Day log no longer exists, dropping message", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get day log: %w", err)
	}

	if err := w.backup.AppendDayLog(ctx, row.Log, row.Version); err != nil {
		if markErr := w.storage.MarkDayLogSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark day log sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("mirror day log: %w", err)
	}
	return w.storage.MarkDayLogSynced(ctx, id)
}

func (w *SyncWorker) syncSpendItem(ctx context.Context, id int64) error {
	row, err := w.storage.GetSpendItemByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Spend item no longer exists, dropping message", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get spend item: %w", err)
	}

	if err := w.backup.AppendSpendItem(ctx, row.Item); err != nil {
		if markErr := w.storage.MarkSpendItemSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark spend item sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("mirror spend item: %w", err)
	}
	return w.storage.MarkSpendItemSynced(ctx, id)
}

// ProcessPending sweeps rows still flagged pending. It keeps going past
// per-row failures so one bad record cannot stall the batch.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	var failed int

	days, err := w.storage.GetPendingDayLogs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending day logs: %w", err)
	}
	for _, row := range days {
		if err := w.syncDayLog(ctx, row.ID); err != nil {
			slog.ErrorContext(ctx, "Pending day log sync failed", "id", row.ID, "error", err)
			failed++
		}
	}

	items, err := w.storage.GetPendingSpendItems(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending spend items: %w", err)
	}
	for _, row := range items {
		if err := w.syncSpendItem(ctx, row.ID); err != nil {
			slog.ErrorContext(ctx, "Pending spend item sync failed", "id", row.ID, "error", err)
			failed++
		}
	}

	if len(days) > 0 || len(items) > 0 {
		slog.InfoContext(ctx, "Processed pending records",
			"day_logs", len(days), "spend_items", len(items), "failed", failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pending records failed to sync", failed, len(days)+len(items))
	}
	return nil
}
