// Package export declares the backup target the sync worker writes to.
package export

import (
	"context"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// BackupWriter is an append-only mirror of the local database. Rows are
// written newest-last; a re-synced day log appears again with a higher
// version instead of editing the earlier row.
type BackupWriter interface {
	AppendDayLog(ctx context.Context, dl core.DayLog, version int64) error
	AppendSpendItem(ctx context.Context, it core.SpendItem) error
	// MarkSpendItemDeleted appends a tombstone row for a locally deleted item.
	MarkSpendItemDeleted(ctx context.Context, id int64) error
}
