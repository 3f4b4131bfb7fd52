package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/stats"
)

// handleWrappedStats serves GET /stats?year=, the full yearly review.
func (s *Server) handleWrappedStats(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveCachedStats(w, r, fmt.Sprintf("%04d:wrapped", year), func() (any, error) {
		dayLogs, err := s.days.ListDayLogsByYear(r.Context(), year)
		if err != nil {
			return nil, fmt.Errorf("list day logs: %w", err)
		}
		items, err := s.items.ListSpendItemsByYear(r.Context(), year)
		if err != nil {
			return nil, fmt.Errorf("list spend items: %w", err)
		}
		return stats.ComputeWrapped(dayLogs, items, year, s.statsCfg), nil
	})
}

type monthlyResponse struct {
	Year   int                `json:"year"`
	Source string             `json:"source"`
	Months []stats.MonthTotal `json:"months"`
}

// handleMonthlyStats serves GET /stats/monthly?year=&source=days|items.
// Day-level and item-level totals are independent views and never reconciled.
func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "days"
	}
	if source != "days" && source != "items" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid source %q: must be days or items", source))
		return
	}

	s.serveCachedStats(w, r, fmt.Sprintf("%04d:monthly:%s", year, source), func() (any, error) {
		var months []stats.MonthTotal
		switch source {
		case "days":
			dayLogs, err := s.days.ListDayLogsByYear(r.Context(), year)
			if err != nil {
				return nil, fmt.Errorf("list day logs: %w", err)
			}
			months = stats.MonthlyDayTotals(dayLogs, year)
		case "items":
			items, err := s.items.ListSpendItemsByYear(r.Context(), year)
			if err != nil {
				return nil, fmt.Errorf("list spend items: %w", err)
			}
			months = stats.MonthlyItemTotals(items, year)
		}
		return monthlyResponse{Year: year, Source: source, Months: months}, nil
	})
}

type allocationResponse struct {
	Year   int                        `json:"year"`
	Months []stats.MonthCategorySpend `json:"months"`
}

// handleAllocationStats serves GET /stats/allocation?year=, the day-level
// spend split across categories in proportion to logged hours.
func (s *Server) handleAllocationStats(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.serveCachedStats(w, r, fmt.Sprintf("%04d:allocation", year), func() (any, error) {
		dayLogs, err := s.days.ListDayLogsByYear(r.Context(), year)
		if err != nil {
			return nil, fmt.Errorf("list day logs: %w", err)
		}
		return allocationResponse{Year: year, Months: stats.MonthlyCategoryAllocation(dayLogs, year)}, nil
	})
}

// serveCachedStats returns the cached response body for key, computing and
// caching it on a miss.
func (s *Server) serveCachedStats(w http.ResponseWriter, r *http.Request, key string, compute func() (any, error)) {
	if body, ok := s.statsCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	result, err := compute()
	if err != nil {
		slog.ErrorContext(r.Context(), "Stats computation failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal stats", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.statsCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
