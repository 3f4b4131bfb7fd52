package worker

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/amqp"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/storage"
)

type fakeBackup struct {
	dayLogs   []core.DayLog
	items     []core.SpendItem
	deleted   []int64
	appendErr error
}

func (f *fakeBackup) AppendDayLog(_ context.Context, dl core.DayLog, _ int64) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.dayLogs = append(f.dayLogs, dl)
	return nil
}

func (f *fakeBackup) AppendSpendItem(_ context.Context, it core.SpendItem) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.items = append(f.items, it)
	return nil
}

func (f *fakeBackup) MarkSpendItemDeleted(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if err := storage.RunMigrations(dbPath); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return storage.NewRepository(db, nil)
}

func seedDayLog(t *testing.T, repo *storage.Repository, date string) int64 {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", date, err)
	}
	ref, err := repo.UpsertDayLog(context.Background(), core.DayLog{Date: d, Hourly: core.EmptyHourly()})
	if err != nil {
		t.Fatalf("UpsertDayLog() error = %v", err)
	}
	id, ok := storage.DayLogID(ref)
	if !ok {
		t.Fatalf("DayLogID(%q) not parseable", ref)
	}
	return id
}

func TestHandleMessageSyncsDayLog(t *testing.T) {
	repo := newTestRepo(t)
	backup := &fakeBackup{}
	w := NewSyncWorker(repo, backup, 10)
	ctx := context.Background()

	id := seedDayLog(t, repo, "2024-07-07")

	if err := w.HandleMessage(ctx, amqp.NewDayLogSyncMessage(id, 1)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(backup.dayLogs) != 1 {
		t.Fatalf("mirrored day logs = %d, want 1", len(backup.dayLogs))
	}

	pending, err := repo.GetPendingDayLogs(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingDayLogs() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sync = %d, want 0", len(pending))
	}
}

func TestHandleMessageMissingRecordIsDropped(t *testing.T) {
	w := NewSyncWorker(newTestRepo(t), &fakeBackup{}, 10)

	if err := w.HandleMessage(context.Background(), amqp.NewDayLogSyncMessage(999, 1)); err != nil {
		t.Errorf("HandleMessage() for missing record error = %v, want nil", err)
	}
}

func TestHandleMessageBackupFailureMarksError(t *testing.T) {
	repo := newTestRepo(t)
	backup := &fakeBackup{appendErr: errors.New("quota exceeded")}
	w := NewSyncWorker(repo, backup, 10)
	ctx := context.Background()

	id := seedDayLog(t, repo, "2024-07-07")

	if err := w.HandleMessage(ctx, amqp.NewDayLogSyncMessage(id, 1)); err == nil {
		t.Fatal("HandleMessage() should propagate backup errors")
	}

	pending, err := repo.GetPendingDayLogs(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingDayLogs() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("row should be flagged error, not pending; pending = %d", len(pending))
	}
}

func TestHandleMessageDeleteTombstone(t *testing.T) {
	backup := &fakeBackup{}
	w := NewSyncWorker(newTestRepo(t), backup, 10)

	if err := w.HandleMessage(context.Background(), amqp.NewSpendItemDeleteMessage(42)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(backup.deleted) != 1 || backup.deleted[0] != 42 {
		t.Errorf("deleted = %v, want [42]", backup.deleted)
	}
}

func TestHandleMessageUnknownKindDropped(t *testing.T) {
	w := NewSyncWorker(newTestRepo(t), &fakeBackup{}, 10)

	msg := &amqp.RecordSyncMessage{Kind: "mystery", Op: amqp.OpUpsert, ID: 1}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Errorf("HandleMessage() error = %v, want nil for unknown kind", err)
	}
}

func TestProcessPendingSweepsBothTables(t *testing.T) {
	repo := newTestRepo(t)
	backup := &fakeBackup{}
	w := NewSyncWorker(repo, backup, 10)
	ctx := context.Background()

	seedDayLog(t, repo, "2024-07-07")
	seedDayLog(t, repo, "2024-07-08")

	d, _ := core.ParseDate("2024-07-07")
	if _, err := repo.AppendSpendItem(ctx, core.SpendItem{
		Date: d, Category: core.CategoryFood, Name: "Lunch", Price: core.Money{Cents: 1200},
	}); err != nil {
		t.Fatalf("AppendSpendItem() error = %v", err)
	}

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}
	if len(backup.dayLogs) != 2 || len(backup.items) != 1 {
		t.Errorf("mirrored = %d day logs, %d items; want 2 and 1",
			len(backup.dayLogs), len(backup.items))
	}

	// Second sweep finds nothing.
	backup.dayLogs, backup.items = nil, nil
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("second ProcessPending() error = %v", err)
	}
	if len(backup.dayLogs) != 0 || len(backup.items) != 0 {
		t.Errorf("second sweep mirrored records, want none")
	}
}
