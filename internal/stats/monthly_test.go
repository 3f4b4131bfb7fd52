package stats

import (
	"math"
	"testing"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

func TestMonthlyDayTotalsBucketCompleteness(t *testing.T) {
	got := MonthlyDayTotals(nil, 2024)
	if len(got) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(got))
	}
	for i, m := range got {
		want := monthKey(2024, i+1)
		if m.Month != want {
			t.Fatalf("bucket %d = %q, want %q", i, m.Month, want)
		}
		if m.Total != 0 {
			t.Fatalf("bucket %d total = %v, want 0", i, m.Total)
		}
	}
}

func TestMonthlyDayTotalsUsesDayLevelSpend(t *testing.T) {
	dayLogs := []core.DayLog{
		day(core.NewDate(2024, 1, 1), 1050, core.CategoryWork),
		day(core.NewDate(2024, 1, 15), 2000),
		day(core.NewDate(2024, 3, 2), 999),
		day(core.NewDate(2023, 1, 1), 55555), // wrong year, ignored
	}
	got := MonthlyDayTotals(dayLogs, 2024)
	if got[0].Total != 30.50 {
		t.Fatalf("january = %v, want 30.50", got[0].Total)
	}
	if got[2].Total != 9.99 {
		t.Fatalf("march = %v, want 9.99", got[2].Total)
	}
	if got[1].Total != 0 {
		t.Fatalf("february should be empty, got %v", got[1].Total)
	}
}

func TestMonthlyItemTotalsIndependentFromDayTotals(t *testing.T) {
	// Day says 100.00, items say 2.50: the two signals never reconcile.
	dayLogs := []core.DayLog{day(core.NewDate(2024, 2, 1), 10000, core.CategoryFood)}
	items := []core.SpendItem{item2(core.NewDate(2024, 2, 1), "Coffee", 250)}

	dayTotals := MonthlyDayTotals(dayLogs, 2024)
	itemTotals := MonthlyItemTotals(items, 2024)

	if dayTotals[1].Total != 100.00 {
		t.Fatalf("day-level february = %v", dayTotals[1].Total)
	}
	if itemTotals[1].Total != 2.50 {
		t.Fatalf("item-level february = %v", itemTotals[1].Total)
	}
}

func item2(d core.Date, name string, cents int64) core.SpendItem {
	return core.SpendItem{Date: d, Category: core.CategoryFood, Name: name, Price: core.Money{Cents: cents}}
}

func TestMonthlyCategoryAllocationProportions(t *testing.T) {
	// 6 logged hours: 4 work, 2 food; spend 9.00 -> 6.00 work, 3.00 food.
	cats := append(repeat(core.CategoryWork, 4), repeat(core.CategoryFood, 2)...)
	dayLogs := []core.DayLog{day(core.NewDate(2024, 4, 10), 900, cats...)}

	got := MonthlyCategoryAllocation(dayLogs, 2024)
	april := got[3]
	if len(april.Categories) != 2 {
		t.Fatalf("april categories = %+v", april.Categories)
	}
	if april.Categories[0].ID != core.CategoryWork || april.Categories[0].Total != 6.00 {
		t.Fatalf("work share = %+v, want 6.00", april.Categories[0])
	}
	if april.Categories[1].ID != core.CategoryFood || april.Categories[1].Total != 3.00 {
		t.Fatalf("food share = %+v, want 3.00", april.Categories[1])
	}
}

func TestMonthlyCategoryAllocationConservesCents(t *testing.T) {
	// 10.00 over 3 hours does not divide evenly; the leftover cent must land
	// somewhere, not vanish.
	cats := []core.CategoryID{core.CategoryWork, core.CategoryWork, core.CategoryFood}
	dayLogs := []core.DayLog{day(core.NewDate(2024, 5, 1), 1000, cats...)}

	got := MonthlyCategoryAllocation(dayLogs, 2024)
	may := got[4]
	sum := 0.0
	for _, c := range may.Categories {
		sum += c.Total
	}
	if math.Abs(sum-10.00) > 1e-9 {
		t.Fatalf("allocated %v, want 10.00", sum)
	}
	// Work has the larger share, so it absorbs the remainder.
	if may.Categories[0].ID != core.CategoryWork || may.Categories[0].Total != 6.67 {
		t.Fatalf("work share = %+v, want 6.67", may.Categories[0])
	}
}

func TestMonthlyCategoryAllocationUnattributed(t *testing.T) {
	// Spend recorded, zero logged hours: must not divide by zero and must not
	// silently drop the money.
	dayLogs := []core.DayLog{day(core.NewDate(2024, 6, 1), 4200)}

	got := MonthlyCategoryAllocation(dayLogs, 2024)
	june := got[5]
	if june.Unattributed != 42.00 {
		t.Fatalf("unattributed = %v, want 42.00", june.Unattributed)
	}
	if len(june.Categories) != 0 {
		t.Fatalf("no categories should receive a share: %+v", june.Categories)
	}
}
