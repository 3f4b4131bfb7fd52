package stats

import (
	"sort"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// LongestStreak returns the longest run of consecutive records, in date order,
// whose hourly log contains the category at least once.
//
// The walk covers only the days for which a record exists: a date with no
// record at all is simply absent and does not break a run, while an explicit
// record that never mentions the category does. Product has been told about
// the asymmetry and wants it kept.
func LongestStreak(dayLogs []core.DayLog, category core.CategoryID) int {
	days := make([]core.DayLog, len(dayLogs))
	copy(days, dayLogs)
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date.Time) })

	current, max := 0, 0
	for _, dl := range days {
		if dl.Hourly.Contains(category) {
			current++
			if current > max {
				max = current
			}
		} else {
			current = 0
		}
	}
	return max
}
