// Package google mirrors records to a Google Sheets spreadsheet, one pair of
// sheets per year ("2024 Days", "2024 Items").
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/export"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	daysBase      string
	itemsBase     string
}

var _ export.BackupWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet base names: GOOGLE_DAYS_SHEET_NAME (default "Days"),
// GOOGLE_ITEMS_SHEET_NAME (default "Items").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	daysBase := strings.TrimSpace(os.Getenv("GOOGLE_DAYS_SHEET_NAME"))
	if daysBase == "" {
		daysBase = "Days"
	}
	itemsBase := strings.TrimSpace(os.Getenv("GOOGLE_ITEMS_SHEET_NAME"))
	if itemsBase == "" {
		itemsBase = "Items"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		daysBase:      daysBase,
		itemsBase:     itemsBase,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		var err error
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// yearSheetName builds the per-year sheet name, e.g. "2024 Days".
func yearSheetName(base string, year int) string {
	return fmt.Sprintf("%d %s", year, base)
}

func (c *Client) AppendDayLog(ctx context.Context, dl core.DayLog, version int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	hourly, err := json.Marshal(dl.Hourly.Slice())
	if err != nil {
		return fmt.Errorf("marshal hourly log: %w", err)
	}
	row := []any{
		dl.Date.String(),
		version,
		dl.TotalSpend.Float64(),
		dl.Hourly.LoggedHours(),
		string(hourly),
		dl.Highlight,
	}
	sheet := yearSheetName(c.daysBase, dl.Date.Year())
	if err := c.appendRow(ctx, sheet, row); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Mirrored day log to sheet",
		"date", dl.Date.String(), "version", version, "sheet", sheet)
	return nil
}

func (c *Client) AppendSpendItem(ctx context.Context, it core.SpendItem) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	row := []any{
		it.Date.String(),
		core.CategoryByID(it.Category).Name,
		it.Name,
		it.Price.Float64(),
	}
	sheet := yearSheetName(c.itemsBase, it.Date.Year())
	if err := c.appendRow(ctx, sheet, row); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Mirrored spend item to sheet",
		"date", it.Date.String(), "name", it.Name, "sheet", sheet)
	return nil
}

func (c *Client) MarkSpendItemDeleted(ctx context.Context, id int64) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	// The local row is already gone, so the tombstone lands in the current
	// year's sheet.
	row := []any{
		time.Now().Format("2006-01-02"),
		"deleted",
		fmt.Sprintf("item %d", id),
		"",
	}
	return c.appendRow(ctx, yearSheetName(c.itemsBase, time.Now().Year()), row)
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) error {
	rng := fmt.Sprintf("%s!A:A", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}
	return nil
}
