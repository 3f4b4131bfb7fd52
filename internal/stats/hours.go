package stats

import (
	"sort"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// HoursByCategory counts, for every canonical category, the hours logged with
// it across all days, plus the overall logged-hour total. Sentinel hours and
// ids outside the canonical table count as unlogged. The result covers every
// category, zero-hour ones included, sorted descending by hours with ties kept
// in declaration order; presentation layers usually filter to hours > 0.
func HoursByCategory(dayLogs []core.DayLog) ([]CategoryHours, int) {
	counts := make(map[core.CategoryID]int, len(core.Categories))
	for _, c := range core.Categories {
		counts[c.ID] = 0
	}

	totalHours := 0
	for _, dl := range dayLogs {
		for _, slot := range dl.Hourly {
			if slot == core.SentinelHour {
				continue
			}
			if _, known := counts[slot]; !known {
				// Unrecognized id: treat as unlogged rather than crash.
				continue
			}
			counts[slot]++
			totalHours++
		}
	}

	out := make([]CategoryHours, 0, len(core.Categories))
	for _, c := range core.Categories {
		hours := counts[c.ID]
		pct := 0.0
		if totalHours > 0 {
			pct = float64(hours) / float64(totalHours) * 100
		}
		out = append(out, CategoryHours{
			ID:         c.ID,
			Name:       c.Name,
			Color:      c.Color,
			Hours:      hours,
			Percentage: pct,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours > out[j].Hours })
	return out, totalHours
}
