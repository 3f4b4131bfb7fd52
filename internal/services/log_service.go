// Package services orchestrates writes across SQLite and AMQP. Local
// persistence is the source of truth; publish failures are logged and
// swallowed so the request never depends on the broker.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/amqp"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/storage"
)

// LogService implements the store ports on the SQLite repository and
// notifies the sync worker after every successful write.
type LogService struct {
	storage    *storage.Repository
	amqpClient *amqp.Client
}

func NewLogService(storage *storage.Repository, amqpClient *amqp.Client) *LogService {
	return &LogService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *LogService) UpsertDayLog(ctx context.Context, dl core.DayLog) (string, error) {
	ref, err := s.storage.UpsertDayLog(ctx, dl)
	if err != nil {
		return "", fmt.Errorf("save day log: %w", err)
	}

	id, ok := storage.DayLogID(ref)
	if !ok {
		slog.ErrorContext(ctx, "Failed to parse day log reference", "ref", ref)
		return ref, nil // local save succeeded
	}

	version := int64(1)
	if row, err := s.storage.GetDayLogByID(ctx, id); err == nil {
		version = row.Version
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return ref, nil
	}
	if err := s.amqpClient.PublishDayLogSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish day log sync message",
			"id", id, "error", err)
		// Don't fail the request, the record is saved locally
	}
	return ref, nil
}

func (s *LogService) GetDayLog(ctx context.Context, date core.Date) (core.DayLog, bool, error) {
	return s.storage.GetDayLog(ctx, date)
}

func (s *LogService) ListDayLogsByYear(ctx context.Context, year int) ([]core.DayLog, error) {
	return s.storage.ListDayLogsByYear(ctx, year)
}

func (s *LogService) AppendSpendItem(ctx context.Context, it core.SpendItem) (string, error) {
	ref, err := s.storage.AppendSpendItem(ctx, it)
	if err != nil {
		return "", fmt.Errorf("save spend item: %w", err)
	}

	id, ok := storage.SpendItemID(ref)
	if !ok {
		slog.ErrorContext(ctx, "Failed to parse spend item reference", "ref", ref)
		return ref, nil
	}

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return ref, nil
	}
	if err := s.amqpClient.PublishSpendItemSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish spend item sync message",
			"id", id, "error", err)
	}
	return ref, nil
}

func (s *LogService) ListSpendItemsByYear(ctx context.Context, year int) ([]core.SpendItem, error) {
	return s.storage.ListSpendItemsByYear(ctx, year)
}

func (s *LogService) ListSpendItemsByMonth(ctx context.Context, year, month int) ([]core.SpendItem, error) {
	return s.storage.ListSpendItemsByMonth(ctx, year, month)
}

func (s *LogService) DeleteSpendItem(ctx context.Context, ref string) error {
	id, hasID := storage.SpendItemID(ref)

	if err := s.storage.DeleteSpendItem(ctx, ref); err != nil {
		return fmt.Errorf("delete spend item: %w", err)
	}

	if !hasID {
		return nil
	}
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	if err := s.amqpClient.PublishSpendItemDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish spend item delete message",
			"id", id, "error", err)
	}
	return nil
}

// Close closes the AMQP connection. The database handle is owned by main.
func (s *LogService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}
