// Package memory is the local-only backend: everything lives in process
// memory. It backs tests and the no-database mode where a single client keeps
// its own data.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/store"
)

var ErrNotFound = store.ErrNotFound

type Store struct {
	mu    sync.Mutex
	days  map[string]core.DayLog // keyed by YYYY-MM-DD
	items []memItem
	next  int
}

type memItem struct {
	ref     string
	item    core.SpendItem
	deleted bool
}

func New() *Store {
	return &Store{days: make(map[string]core.DayLog)}
}

// UpsertDayLog creates or replaces the record for the log's date.
func (s *Store) UpsertDayLog(_ context.Context, dl core.DayLog) (string, error) {
	if err := dl.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dl.Date.String()
	s.days[key] = dl
	return "mem:day:" + key, nil
}

func (s *Store) GetDayLog(_ context.Context, date core.Date) (core.DayLog, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dl, ok := s.days[date.String()]
	return dl, ok, nil
}

func (s *Store) ListDayLogsByYear(_ context.Context, year int) ([]core.DayLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.DayLog, 0, len(s.days))
	for _, dl := range s.days {
		if dl.Date.Year() == year {
			out = append(out, dl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

// AppendSpendItem stores the item and returns a synthetic row reference.
func (s *Store) AppendSpendItem(_ context.Context, it core.SpendItem) (string, error) {
	if err := it.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	ref := "mem:item:" + strconv.Itoa(s.next)
	s.items = append(s.items, memItem{ref: ref, item: it})
	return ref, nil
}

func (s *Store) ListSpendItemsByYear(_ context.Context, year int) ([]core.SpendItem, error) {
	return s.listItems(func(it core.SpendItem) bool { return it.Date.Year() == year })
}

func (s *Store) ListSpendItemsByMonth(_ context.Context, year, month int) ([]core.SpendItem, error) {
	return s.listItems(func(it core.SpendItem) bool {
		return it.Date.Year() == year && it.Date.Month() == month
	})
}

func (s *Store) listItems(keep func(core.SpendItem) bool) ([]core.SpendItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SpendItem, 0, len(s.items))
	for _, m := range s.items {
		if m.deleted || !keep(m.item) {
			continue
		}
		out = append(out, m.item)
	}
	return out, nil
}

func (s *Store) DeleteSpendItem(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, "mem:item:") {
		return fmt.Errorf("bad reference %q: %w", ref, ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ref == ref && !s.items[i].deleted {
			s.items[i].deleted = true
			return nil
		}
	}
	return ErrNotFound
}
