package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// SentinelHour marks an hour slot with no logged activity.
	SentinelHour CategoryID = -1

	// HoursPerDay is the fixed length of a day's hourly log.
	HoursPerDay = 24
)

type (
	// CategoryID identifies an activity category. Valid ids are listed in
	// Categories; anything else resolves to Unknown.
	CategoryID int

	// Category is static reference data, shared by every component.
	Category struct {
		ID               CategoryID
		Name             string
		Color            string
		RequiresSpending bool
	}

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// HourlyLog holds one category id per hour of the day, or SentinelHour
	// for hours that were never logged.
	HourlyLog [HoursPerDay]CategoryID

	// DayLog is one user's activity record for one calendar date. TotalSpend
	// is maintained independently from item-level prices and the two are
	// never reconciled.
	DayLog struct {
		Date       Date
		Hourly     HourlyLog
		TotalSpend Money
		Highlight  string
	}

	// SpendItem is a single priced purchase, tagged with a category and date.
	// It is associated with at most one DayLog by date but stored on its own.
	SpendItem struct {
		Date     Date
		Category CategoryID
		Name     string
		Price    Money
	}
)

// Canonical category ids. These are the only ids the engine counts; legacy
// numbering is normalized away at the storage boundary.
const (
	CategoryWork CategoryID = iota + 1
	CategorySleep
	CategoryExercise
	CategoryFood
	CategoryShopping
	CategoryStudy
	CategorySocial
	CategoryLeisure
	CategoryChores
)

// Categories is the canonical table, in declaration order. Hour breakdowns
// preserve this order for ties.
var Categories = []Category{
	{ID: CategoryWork, Name: "Work", Color: "#4ade80"},
	{ID: CategorySleep, Name: "Sleep", Color: "#818cf8"},
	{ID: CategoryExercise, Name: "Exercise", Color: "#fb923c"},
	{ID: CategoryFood, Name: "Food", Color: "#f87171", RequiresSpending: true},
	{ID: CategoryShopping, Name: "Shopping", Color: "#facc15", RequiresSpending: true},
	{ID: CategoryStudy, Name: "Study", Color: "#38bdf8"},
	{ID: CategorySocial, Name: "Social", Color: "#e879f9"},
	{ID: CategoryLeisure, Name: "Leisure", Color: "#a3e635"},
	{ID: CategoryChores, Name: "Chores", Color: "#94a3b8"},
}

// Unknown is the explicit resolution for ids outside the canonical table.
var Unknown = Category{ID: 0, Name: "Unknown", Color: "#9ca3af"}

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty item name")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrMalformedHourly  = errors.New("hourly log must have exactly 24 entries")
	ErrNegativeSpend    = errors.New("spend cannot be negative")
	ErrHighlightTooLong = errors.New("highlight too long (max 500 characters)")
)

// KnownCategory reports whether id is in the canonical table.
func KnownCategory(id CategoryID) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryByID resolves an id to its Category, or Unknown for anything the
// table does not list.
func CategoryByID(id CategoryID) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	return Unknown
}

// EmptyHourly returns an all-sentinel hourly log.
func EmptyHourly() HourlyLog {
	var h HourlyLog
	for i := range h {
		h[i] = SentinelHour
	}
	return h
}

// NormalizeHourly converts a raw slice into a valid HourlyLog. A slice that is
// not exactly 24 entries long yields an all-sentinel log and ErrMalformedHourly
// so the caller can log a warning and keep going. Individual values outside the
// canonical table (including the legacy 0 sentinel) become SentinelHour.
func NormalizeHourly(raw []int) (HourlyLog, error) {
	if len(raw) != HoursPerDay {
		return EmptyHourly(), ErrMalformedHourly
	}
	var h HourlyLog
	for i, v := range raw {
		id := CategoryID(v)
		if KnownCategory(id) {
			h[i] = id
		} else {
			h[i] = SentinelHour
		}
	}
	return h, nil
}

// Contains reports whether the category appears in any hour slot.
func (h HourlyLog) Contains(id CategoryID) bool {
	for _, v := range h {
		if v == id {
			return true
		}
	}
	return false
}

// LoggedHours counts the non-sentinel slots.
func (h HourlyLog) LoggedHours() int {
	n := 0
	for _, v := range h {
		if v != SentinelHour {
			n++
		}
	}
	return n
}

// Slice returns the log as a plain int slice, for serialization.
func (h HourlyLog) Slice() []int {
	out := make([]int, HoursPerDay)
	for i, v := range h {
		out[i] = int(v)
	}
	return out
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeSpend
	}
	return nil
}

func (dl DayLog) Validate() error {
	if err := dl.Date.Validate(); err != nil {
		return err
	}
	if err := dl.TotalSpend.Validate(); err != nil {
		return err
	}
	if len(dl.Highlight) > 500 {
		return ErrHighlightTooLong
	}
	return nil
}

func (it SpendItem) Validate() error {
	if err := it.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(it.Name)) == 0 {
		return ErrEmptyName
	}
	if len(it.Name) > 200 {
		return errors.New("item name too long (max 200 characters)")
	}
	if err := it.Price.Validate(); err != nil {
		return err
	}
	// The requires-spending flag is advisory; only reject ids that do not
	// exist at all.
	if !KnownCategory(it.Category) {
		return ErrUnknownCategory
	}
	return nil
}
