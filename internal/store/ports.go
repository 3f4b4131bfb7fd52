// Package store declares the outbound ports the HTTP layer talks to. The
// SQLite repository (via the adapter) and the in-memory store both satisfy
// them; the stats engine itself never sees these interfaces, only the records
// they return.
package store

import (
	"context"
	"errors"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// ErrNotFound reports a lookup or delete against a record that does not
// exist. Both backends return it so the HTTP layer can map it to 404.
var ErrNotFound = errors.New("record not found")

type (
	// DayLogStore persists one record per calendar date.
	DayLogStore interface {
		// UpsertDayLog creates or replaces the record for the log's date and
		// returns a storage reference for it.
		UpsertDayLog(ctx context.Context, dl core.DayLog) (ref string, err error)
		// GetDayLog returns the record for a date, reporting whether one exists.
		GetDayLog(ctx context.Context, date core.Date) (core.DayLog, bool, error)
		// ListDayLogsByYear returns all records whose date falls in the year,
		// ascending by date.
		ListDayLogsByYear(ctx context.Context, year int) ([]core.DayLog, error)
	}

	// SpendItemStore persists individual purchases.
	SpendItemStore interface {
		AppendSpendItem(ctx context.Context, it core.SpendItem) (ref string, err error)
		ListSpendItemsByYear(ctx context.Context, year int) ([]core.SpendItem, error)
		ListSpendItemsByMonth(ctx context.Context, year, month int) ([]core.SpendItem, error)
		DeleteSpendItem(ctx context.Context, ref string) error
	}
)
