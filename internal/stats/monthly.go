package stats

import (
	"fmt"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// CategorySpend is one category's share of a month's spend.
type CategorySpend struct {
	ID    core.CategoryID `json:"id"`
	Name  string          `json:"name"`
	Total float64         `json:"total"`
}

// MonthCategorySpend is one month's day-level spend apportioned across the
// categories logged that month. Unattributed collects spend from days that
// recorded money but no hours.
type MonthCategorySpend struct {
	Month        string          `json:"month"` // YYYY-MM
	Categories   []CategorySpend `json:"categories"`
	Unattributed float64         `json:"unattributed"`
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// MonthlyDayTotals buckets day-level TotalSpend by the month of each record's
// date. The result always has exactly 12 entries, January through December,
// whether or not any month has data. This is the "wrapped" trend line; item
// prices never feed it.
func MonthlyDayTotals(dayLogs []core.DayLog, year int) []MonthTotal {
	var cents [12]int64
	for _, dl := range dayLogs {
		if dl.Date.Year() != year {
			continue
		}
		cents[dl.Date.Month()-1] += dl.TotalSpend.Cents
	}
	return monthTotals(cents[:], year)
}

// MonthlyItemTotals buckets item-level prices by the month of each item's own
// date, again always 12 calendar-ordered entries. Day-level totals never feed
// it; the two signals stay independent.
func MonthlyItemTotals(items []core.SpendItem, year int) []MonthTotal {
	var cents [12]int64
	for _, it := range items {
		if it.Date.Year() != year {
			continue
		}
		cents[it.Date.Month()-1] += it.Price.Cents
	}
	return monthTotals(cents[:], year)
}

func monthTotals(cents []int64, year int) []MonthTotal {
	out := make([]MonthTotal, 0, 12)
	for m := 1; m <= 12; m++ {
		out = append(out, MonthTotal{
			Month: monthKey(year, m),
			Total: core.Money{Cents: cents[m-1]}.Float64(),
		})
	}
	return out
}

// MonthlyCategoryAllocation apportions each day's TotalSpend across the
// categories logged that day, proportional to their hour share, then buckets
// by month. A day with spend but zero logged hours cannot be divided, so its
// total lands in the month's Unattributed bucket instead of being dropped.
//
// Allocation is integer-cent conserving: each category gets the floor of its
// share and the leftover cents go to the category with the most hours that day
// (declaration order breaks ties), so per-day allocations always sum back to
// the day's total.
func MonthlyCategoryAllocation(dayLogs []core.DayLog, year int) []MonthCategorySpend {
	var unattributed [12]int64
	var allocated [12]map[core.CategoryID]int64

	for _, dl := range dayLogs {
		if dl.Date.Year() != year {
			continue
		}
		m := dl.Date.Month() - 1
		spend := dl.TotalSpend.Cents
		if spend == 0 {
			continue
		}

		counts := hourCounts(dl.Hourly)
		logged := int64(0)
		for _, h := range counts {
			logged += int64(h)
		}
		if logged == 0 {
			unattributed[m] += spend
			continue
		}

		if allocated[m] == nil {
			allocated[m] = make(map[core.CategoryID]int64)
		}

		remaining := spend
		var top core.CategoryID
		topHours := 0
		for _, c := range core.Categories {
			h := counts[c.ID]
			if h == 0 {
				continue
			}
			share := spend * int64(h) / logged
			allocated[m][c.ID] += share
			remaining -= share
			if h > topHours {
				topHours = h
				top = c.ID
			}
		}
		if remaining > 0 {
			allocated[m][top] += remaining
		}
	}

	out := make([]MonthCategorySpend, 0, 12)
	for m := 1; m <= 12; m++ {
		mcs := MonthCategorySpend{
			Month:        monthKey(year, m),
			Categories:   []CategorySpend{},
			Unattributed: core.Money{Cents: unattributed[m-1]}.Float64(),
		}
		for _, c := range core.Categories {
			cents := allocated[m-1][c.ID]
			if cents == 0 {
				continue
			}
			mcs.Categories = append(mcs.Categories, CategorySpend{
				ID:    c.ID,
				Name:  c.Name,
				Total: core.Money{Cents: cents}.Float64(),
			})
		}
		out = append(out, mcs)
	}
	return out
}

func hourCounts(h core.HourlyLog) map[core.CategoryID]int {
	counts := make(map[core.CategoryID]int)
	for _, slot := range h {
		if slot == core.SentinelHour || !core.KnownCategory(slot) {
			continue
		}
		counts[slot]++
	}
	return counts
}
