// Package stats is the yearly aggregation engine. Every function here is a
// pure computation over the records it is handed: no I/O, no clock reads, no
// shared state, so any number of request handlers may call in concurrently.
package stats

import (
	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// Config controls list sizes. Tracked streak and top-item categories are part
// of the product contract and stay fixed.
type Config struct {
	TopN int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{TopN: 10}
}

type CategoryHours struct {
	ID         core.CategoryID `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Hours      int             `json:"hours"`
	Percentage float64         `json:"percentage"`
}

type ItemGroup struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	TotalSpend float64 `json:"totalSpend"`
}

type TopItems struct {
	Food     []ItemGroup `json:"food"`
	Shopping []ItemGroup `json:"shopping"`
}

type Streaks struct {
	LongestWorkStreak     int `json:"longestWorkStreak"`
	LongestExerciseStreak int `json:"longestExerciseStreak"`
}

type MonthTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// Wrapped is the derived annual report. It is recomputed on every request and
// never persisted.
type Wrapped struct {
	Year            int             `json:"year"`
	TotalHours      int             `json:"totalHours"`
	Categories      []CategoryHours `json:"categories"`
	TopItems        TopItems        `json:"topItems"`
	Streaks         Streaks         `json:"streaks"`
	MonthlySpending []MonthTotal    `json:"monthlySpending"`
}

// ComputeWrapped assembles the full yearly report. Inputs are defensively
// re-filtered by each record's own date, so callers whose range fetch was off
// by a day at a year boundary do not contaminate the totals.
func ComputeWrapped(dayLogs []core.DayLog, items []core.SpendItem, year int, cfg Config) Wrapped {
	days := filterDayLogs(dayLogs, year)
	its := filterItems(items, year)

	categories, totalHours := HoursByCategory(days)

	return Wrapped{
		Year:       year,
		TotalHours: totalHours,
		Categories: categories,
		TopItems: TopItems{
			Food:     TopItemsByCount(its, core.CategoryFood, cfg.TopN),
			Shopping: TopItemsBySpend(its, core.CategoryShopping, cfg.TopN),
		},
		Streaks: Streaks{
			LongestWorkStreak:     LongestStreak(days, core.CategoryWork),
			LongestExerciseStreak: LongestStreak(days, core.CategoryExercise),
		},
		MonthlySpending: MonthlyDayTotals(days, year),
	}
}

func filterDayLogs(dayLogs []core.DayLog, year int) []core.DayLog {
	out := make([]core.DayLog, 0, len(dayLogs))
	for _, dl := range dayLogs {
		if dl.Date.Year() == year {
			out = append(out, dl)
		}
	}
	return out
}

func filterItems(items []core.SpendItem, year int) []core.SpendItem {
	out := make([]core.SpendItem, 0, len(items))
	for _, it := range items {
		if it.Date.Year() == year {
			out = append(out, it)
		}
	}
	return out
}
