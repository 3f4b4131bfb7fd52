package stats

import (
	"sort"
	"strings"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

// Item names group by trimmed, case-folded key; the displayed name is the
// first-seen spelling. The data arrives from free-text entry on two clients
// that never agreed on a normalization, so it has to happen here.
type itemGroup struct {
	name       string
	count      int
	spendCents int64
	order      int
}

func groupItems(items []core.SpendItem, category core.CategoryID) []*itemGroup {
	byKey := make(map[string]*itemGroup)
	var groups []*itemGroup
	for _, it := range items {
		if it.Category != category {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(it.Name))
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &itemGroup{name: strings.TrimSpace(it.Name), order: len(groups)}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.count++
		g.spendCents += it.Price.Cents
	}
	return groups
}

func takeTop(groups []*itemGroup, n int, less func(a, b *itemGroup) bool) []ItemGroup {
	sort.SliceStable(groups, func(i, j int) bool { return less(groups[i], groups[j]) })
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	out := make([]ItemGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, ItemGroup{
			Name:       g.name,
			Count:      g.count,
			TotalSpend: core.Money{Cents: g.spendCents}.Float64(),
		})
	}
	return out
}

// TopItemsByCount returns the n most frequently purchased item names in the
// category. Ties keep first-seen order.
func TopItemsByCount(items []core.SpendItem, category core.CategoryID, n int) []ItemGroup {
	return takeTop(groupItems(items, category), n, func(a, b *itemGroup) bool {
		return a.count > b.count
	})
}

// TopItemsBySpend returns the n item names with the highest total spend in the
// category. Ties keep first-seen order.
func TopItemsBySpend(items []core.SpendItem, category core.CategoryID, n int) []ItemGroup {
	return takeTop(groupItems(items, category), n, func(a, b *itemGroup) bool {
		return a.spendCents > b.spendCents
	})
}
