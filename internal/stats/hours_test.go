package stats

import (
	"testing"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

func TestHoursByCategoryEmpty(t *testing.T) {
	categories, total := HoursByCategory(nil)
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
	if len(categories) != len(core.Categories) {
		t.Fatalf("expected every category present, got %d", len(categories))
	}
	for _, c := range categories {
		if c.Hours != 0 || c.Percentage != 0 {
			t.Fatalf("category %s should be zero: %+v", c.Name, c)
		}
	}
}

func TestHoursByCategorySkipsSentinelDays(t *testing.T) {
	dayLogs := []core.DayLog{
		day(core.NewDate(2024, 1, 1), 0), // all sentinel
		day(core.NewDate(2024, 1, 2), 0, core.CategoryWork, core.CategoryWork),
	}
	_, total := HoursByCategory(dayLogs)
	if total != 2 {
		t.Fatalf("total = %d, want 2 (all-sentinel day contributes nothing)", total)
	}
}

func TestHoursByCategorySortAndTies(t *testing.T) {
	dayLogs := []core.DayLog{
		day(core.NewDate(2024, 1, 1), 0,
			core.CategorySleep, core.CategorySleep, core.CategorySleep,
			core.CategoryWork, core.CategoryWork,
			core.CategoryExercise, core.CategoryExercise),
	}
	categories, total := HoursByCategory(dayLogs)
	if total != 7 {
		t.Fatalf("total = %d, want 7", total)
	}
	if categories[0].ID != core.CategorySleep {
		t.Fatalf("first = %+v, want Sleep", categories[0])
	}
	// Work and Exercise both have 2 hours; declaration order puts Work first.
	if categories[1].ID != core.CategoryWork || categories[2].ID != core.CategoryExercise {
		t.Fatalf("tie order wrong: %+v then %+v", categories[1], categories[2])
	}
}
