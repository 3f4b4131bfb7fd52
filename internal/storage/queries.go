package storage

import (
	"context"
	"database/sql"
)

// Queries wraps raw SQL access to the two record tables. The repository layer
// on top converts rows to and from core types.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type DayLogRow struct {
	ID              int64
	Date            string
	Hourly          string
	TotalSpendCents int64
	Highlight       string
	SyncStatus      string
	Version         int64
	CreatedAt       sql.NullTime
	UpdatedAt       sql.NullTime
}

type SpendItemRow struct {
	ID         int64
	Date       string
	CategoryID int64
	Name       string
	PriceCents int64
	Deleted    int64
	SyncStatus string
	CreatedAt  sql.NullTime
}

type UpsertDayLogParams struct {
	Date            string
	Hourly          string
	TotalSpendCents int64
	Highlight       string
}

const upsertDayLog = `
INSERT INTO day_logs (date, hourly, total_spend_cents, highlight)
VALUES (?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
    hourly = excluded.hourly,
    total_spend_cents = excluded.total_spend_cents,
    highlight = excluded.highlight,
    version = day_logs.version + 1,
    sync_status = 'pending',
    updated_at = CURRENT_TIMESTAMP
RETURNING id, date, hourly, total_spend_cents, highlight, sync_status, version, created_at, updated_at
`

func (q *Queries) UpsertDayLog(ctx context.Context, p UpsertDayLogParams) (DayLogRow, error) {
	var r DayLogRow
	err := q.db.QueryRowContext(ctx, upsertDayLog, p.Date, p.Hourly, p.TotalSpendCents, p.Highlight).Scan(
		&r.ID, &r.Date, &r.Hourly, &r.TotalSpendCents, &r.Highlight,
		&r.SyncStatus, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const getDayLogByDate = `
SELECT id, date, hourly, total_spend_cents, highlight, sync_status, version, created_at, updated_at
FROM day_logs WHERE date = ?
`

func (q *Queries) GetDayLogByDate(ctx context.Context, date string) (DayLogRow, error) {
	var r DayLogRow
	err := q.db.QueryRowContext(ctx, getDayLogByDate, date).Scan(
		&r.ID, &r.Date, &r.Hourly, &r.TotalSpendCents, &r.Highlight,
		&r.SyncStatus, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const getDayLogByID = `
SELECT id, date, hourly, total_spend_cents, highlight, sync_status, version, created_at, updated_at
FROM day_logs WHERE id = ?
`

func (q *Queries) GetDayLogByID(ctx context.Context, id int64) (DayLogRow, error) {
	var r DayLogRow
	err := q.db.QueryRowContext(ctx, getDayLogByID, id).Scan(
		&r.ID, &r.Date, &r.Hourly, &r.TotalSpendCents, &r.Highlight,
		&r.SyncStatus, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const listDayLogsByDateRange = `
SELECT id, date, hourly, total_spend_cents, highlight, sync_status, version, created_at, updated_at
FROM day_logs WHERE date >= ? AND date <= ?
ORDER BY date ASC
`

func (q *Queries) ListDayLogsByDateRange(ctx context.Context, from, to string) ([]DayLogRow, error) {
	rows, err := q.db.QueryContext(ctx, listDayLogsByDateRange, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayLogRow
	for rows.Next() {
		var r DayLogRow
		if err := rows.Scan(
			&r.ID, &r.Date, &r.Hourly, &r.TotalSpendCents, &r.Highlight,
			&r.SyncStatus, &r.Version, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type CreateSpendItemParams struct {
	Date       string
	CategoryID int64
	Name       string
	PriceCents int64
}

const createSpendItem = `
INSERT INTO spend_items (date, category_id, name, price_cents)
VALUES (?, ?, ?, ?)
RETURNING id, date, category_id, name, price_cents, deleted, sync_status, created_at
`

func (q *Queries) CreateSpendItem(ctx context.Context, p CreateSpendItemParams) (SpendItemRow, error) {
	var r SpendItemRow
	err := q.db.QueryRowContext(ctx, createSpendItem, p.Date, p.CategoryID, p.Name, p.PriceCents).Scan(
		&r.ID, &r.Date, &r.CategoryID, &r.Name, &r.PriceCents, &r.Deleted, &r.SyncStatus, &r.CreatedAt,
	)
	return r, err
}

const getSpendItemByID = `
SELECT id, date, category_id, name, price_cents, deleted, sync_status, created_at
FROM spend_items WHERE id = ? AND deleted = 0
`

func (q *Queries) GetSpendItemByID(ctx context.Context, id int64) (SpendItemRow, error) {
	var r SpendItemRow
	err := q.db.QueryRowContext(ctx, getSpendItemByID, id).Scan(
		&r.ID, &r.Date, &r.CategoryID, &r.Name, &r.PriceCents, &r.Deleted, &r.SyncStatus, &r.CreatedAt,
	)
	return r, err
}

const listSpendItemsByDateRange = `
SELECT id, date, category_id, name, price_cents, deleted, sync_status, created_at
FROM spend_items WHERE date >= ? AND date <= ? AND deleted = 0
ORDER BY date ASC, id ASC
`

func (q *Queries) ListSpendItemsByDateRange(ctx context.Context, from, to string) ([]SpendItemRow, error) {
	rows, err := q.db.QueryContext(ctx, listSpendItemsByDateRange, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SpendItemRow
	for rows.Next() {
		var r SpendItemRow
		if err := rows.Scan(
			&r.ID, &r.Date, &r.CategoryID, &r.Name, &r.PriceCents, &r.Deleted, &r.SyncStatus, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const softDeleteSpendItem = `
UPDATE spend_items SET deleted = 1, sync_status = 'pending', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deleted = 0
`

func (q *Queries) SoftDeleteSpendItem(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteSpendItem, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listPendingDayLogs = `
SELECT id, date, hourly, total_spend_cents, highlight, sync_status, version, created_at, updated_at
FROM day_logs WHERE sync_status = 'pending'
ORDER BY updated_at ASC LIMIT ?
`

func (q *Queries) ListPendingDayLogs(ctx context.Context, limit int64) ([]DayLogRow, error) {
	rows, err := q.db.QueryContext(ctx, listPendingDayLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayLogRow
	for rows.Next() {
		var r DayLogRow
		if err := rows.Scan(
			&r.ID, &r.Date, &r.Hourly, &r.TotalSpendCents, &r.Highlight,
			&r.SyncStatus, &r.Version, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const listPendingSpendItems = `
SELECT id, date, category_id, name, price_cents, deleted, sync_status, created_at
FROM spend_items WHERE sync_status = 'pending' AND deleted = 0
ORDER BY created_at ASC LIMIT ?
`

func (q *Queries) ListPendingSpendItems(ctx context.Context, limit int64) ([]SpendItemRow, error) {
	rows, err := q.db.QueryContext(ctx, listPendingSpendItems, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SpendItemRow
	for rows.Next() {
		var r SpendItemRow
		if err := rows.Scan(
			&r.ID, &r.Date, &r.CategoryID, &r.Name, &r.PriceCents, &r.Deleted, &r.SyncStatus, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) MarkDayLogSyncStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE day_logs SET sync_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (q *Queries) MarkSpendItemSyncStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE spend_items SET sync_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}
