package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/store"
)

// Repository implements the store ports on SQLite and carries the extra
// sync-tracking methods the background worker needs. Hourly logs are stored
// as a JSON array of ints and normalized on every read, so legacy rows with
// unknown category ids degrade to unlogged hours instead of failing.
type Repository struct {
	q      *Queries
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{q: New(db), logger: logger}
}

func dayRef(id int64) string  { return fmt.Sprintf("sqlite:day:%d", id) }
func itemRef(id int64) string { return fmt.Sprintf("sqlite:item:%d", id) }

func parseItemRef(ref string) (int64, error) {
	rest, ok := strings.CutPrefix(ref, "sqlite:item:")
	if !ok {
		return 0, fmt.Errorf("bad reference %q: %w", ref, store.ErrNotFound)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad reference %q: %w", ref, store.ErrNotFound)
	}
	return id, nil
}

func yearRange(year int) (string, string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

func monthRange(year, month int) (string, string) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	return prefix + "-01", prefix + "-31"
}

func (r *Repository) UpsertDayLog(ctx context.Context, dl core.DayLog) (string, error) {
	if err := dl.Validate(); err != nil {
		return "", err
	}
	hourly, err := json.Marshal(dl.Hourly.Slice())
	if err != nil {
		return "", fmt.Errorf("marshal hourly log: %w", err)
	}
	row, err := r.q.UpsertDayLog(ctx, UpsertDayLogParams{
		Date:            dl.Date.String(),
		Hourly:          string(hourly),
		TotalSpendCents: dl.TotalSpend.Cents,
		Highlight:       dl.Highlight,
	})
	if err != nil {
		return "", fmt.Errorf("upsert day log: %w", err)
	}
	return dayRef(row.ID), nil
}

func (r *Repository) GetDayLog(ctx context.Context, date core.Date) (core.DayLog, bool, error) {
	row, err := r.q.GetDayLogByDate(ctx, date.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.DayLog{}, false, nil
	}
	if err != nil {
		return core.DayLog{}, false, fmt.Errorf("get day log: %w", err)
	}
	dl, err := r.dayLogFromRow(ctx, row)
	if err != nil {
		return core.DayLog{}, false, err
	}
	return dl, true, nil
}

func (r *Repository) ListDayLogsByYear(ctx context.Context, year int) ([]core.DayLog, error) {
	from, to := yearRange(year)
	rows, err := r.q.ListDayLogsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list day logs: %w", err)
	}
	out := make([]core.DayLog, 0, len(rows))
	for _, row := range rows {
		dl, err := r.dayLogFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, dl)
	}
	return out, nil
}

func (r *Repository) AppendSpendItem(ctx context.Context, it core.SpendItem) (string, error) {
	if err := it.Validate(); err != nil {
		return "", err
	}
	row, err := r.q.CreateSpendItem(ctx, CreateSpendItemParams{
		Date:       it.Date.String(),
		CategoryID: int64(it.Category),
		Name:       it.Name,
		PriceCents: it.Price.Cents,
	})
	if err != nil {
		return "", fmt.Errorf("create spend item: %w", err)
	}
	return itemRef(row.ID), nil
}

func (r *Repository) ListSpendItemsByYear(ctx context.Context, year int) ([]core.SpendItem, error) {
	from, to := yearRange(year)
	return r.listItems(ctx, from, to)
}

func (r *Repository) ListSpendItemsByMonth(ctx context.Context, year, month int) ([]core.SpendItem, error) {
	from, to := monthRange(year, month)
	return r.listItems(ctx, from, to)
}

func (r *Repository) listItems(ctx context.Context, from, to string) ([]core.SpendItem, error) {
	rows, err := r.q.ListSpendItemsByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list spend items: %w", err)
	}
	out := make([]core.SpendItem, 0, len(rows))
	for _, row := range rows {
		it, err := r.spendItemFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *Repository) DeleteSpendItem(ctx context.Context, ref string) error {
	id, err := parseItemRef(ref)
	if err != nil {
		return err
	}
	affected, err := r.q.SoftDeleteSpendItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete spend item: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) dayLogFromRow(ctx context.Context, row DayLogRow) (core.DayLog, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.DayLog{}, fmt.Errorf("day log %d: %w", row.ID, err)
	}

	var raw []int
	if err := json.Unmarshal([]byte(row.Hourly), &raw); err != nil {
		r.logger.WarnContext(ctx, "stored hourly log is not valid JSON, treating as unlogged",
			"id", row.ID, "date", row.Date, "error", err)
	}
	hourly, err := core.NormalizeHourly(raw)
	if errors.Is(err, core.ErrMalformedHourly) {
		r.logger.WarnContext(ctx, "stored hourly log is malformed, treating as unlogged",
			"id", row.ID, "date", row.Date, "length", len(raw))
	} else if err != nil {
		return core.DayLog{}, fmt.Errorf("day log %d: %w", row.ID, err)
	}

	return core.DayLog{
		Date:       date,
		Hourly:     hourly,
		TotalSpend: core.Money{Cents: row.TotalSpendCents},
		Highlight:  row.Highlight,
	}, nil
}

func (r *Repository) spendItemFromRow(ctx context.Context, row SpendItemRow) (core.SpendItem, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.SpendItem{}, fmt.Errorf("spend item %d: %w", row.ID, err)
	}
	category := core.CategoryID(row.CategoryID)
	if !core.KnownCategory(category) {
		r.logger.WarnContext(ctx, "stored spend item has unknown category",
			"id", row.ID, "category", row.CategoryID)
		category = core.Unknown.ID
	}
	return core.SpendItem{
		Date:     date,
		Category: category,
		Name:     row.Name,
		Price:    core.Money{Cents: row.PriceCents},
	}, nil
}

// Worker-facing methods. The sync worker reads pending rows in batches and
// flips their status once the backup target has acknowledged them.

type PendingDayLog struct {
	ID      int64
	Version int64
	Log     core.DayLog
}

type PendingSpendItem struct {
	ID   int64
	Item core.SpendItem
}

func (r *Repository) GetPendingDayLogs(ctx context.Context, limit int) ([]PendingDayLog, error) {
	rows, err := r.q.ListPendingDayLogs(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending day logs: %w", err)
	}
	out := make([]PendingDayLog, 0, len(rows))
	for _, row := range rows {
		dl, err := r.dayLogFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingDayLog{ID: row.ID, Version: row.Version, Log: dl})
	}
	return out, nil
}

func (r *Repository) GetPendingSpendItems(ctx context.Context, limit int) ([]PendingSpendItem, error) {
	rows, err := r.q.ListPendingSpendItems(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending spend items: %w", err)
	}
	out := make([]PendingSpendItem, 0, len(rows))
	for _, row := range rows {
		it, err := r.spendItemFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, PendingSpendItem{ID: row.ID, Item: it})
	}
	return out, nil
}

func (r *Repository) GetDayLogByID(ctx context.Context, id int64) (PendingDayLog, error) {
	row, err := r.q.GetDayLogByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return PendingDayLog{}, store.ErrNotFound
	}
	if err != nil {
		return PendingDayLog{}, fmt.Errorf("get day log %d: %w", id, err)
	}
	dl, err := r.dayLogFromRow(ctx, row)
	if err != nil {
		return PendingDayLog{}, err
	}
	return PendingDayLog{ID: row.ID, Version: row.Version, Log: dl}, nil
}

func (r *Repository) GetSpendItemByID(ctx context.Context, id int64) (PendingSpendItem, error) {
	row, err := r.q.GetSpendItemByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return PendingSpendItem{}, store.ErrNotFound
	}
	if err != nil {
		return PendingSpendItem{}, fmt.Errorf("get spend item %d: %w", id, err)
	}
	it, err := r.spendItemFromRow(ctx, row)
	if err != nil {
		return PendingSpendItem{}, err
	}
	return PendingSpendItem{ID: row.ID, Item: it}, nil
}

func (r *Repository) MarkDayLogSynced(ctx context.Context, id int64) error {
	return r.q.MarkDayLogSyncStatus(ctx, id, "synced")
}

func (r *Repository) MarkDayLogSyncError(ctx context.Context, id int64) error {
	return r.q.MarkDayLogSyncStatus(ctx, id, "error")
}

func (r *Repository) MarkSpendItemSynced(ctx context.Context, id int64) error {
	return r.q.MarkSpendItemSyncStatus(ctx, id, "synced")
}

func (r *Repository) MarkSpendItemSyncError(ctx context.Context, id int64) error {
	return r.q.MarkSpendItemSyncStatus(ctx, id, "error")
}

// DayLogID extracts the numeric row id from a day-log reference.
func DayLogID(ref string) (int64, bool) {
	rest, ok := strings.CutPrefix(ref, "sqlite:day:")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	return id, err == nil
}

// SpendItemID extracts the numeric row id from a spend-item reference.
func SpendItemID(ref string) (int64, bool) {
	id, err := parseItemRef(ref)
	return id, err == nil
}
