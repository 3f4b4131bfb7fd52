package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

type spendItemRequest struct {
	Date     string          `json:"date"`
	Category int             `json:"category"`
	Name     string          `json:"name"`
	Price    json.RawMessage `json:"price"`
}

type spendItemResponse struct {
	Ref      string  `json:"ref,omitempty"`
	Date     string  `json:"date"`
	Category int     `json:"category"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

// handleCreateItem serves POST /items.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req spendItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	price, err := parseSpend(req.Price)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid price amount")
		return
	}

	it := core.SpendItem{
		Date:     date,
		Category: core.CategoryID(req.Category),
		Name:     sanitizeInput(req.Name),
		Price:    price,
	}
	if err := it.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	ref, err := s.items.AppendSpendItem(r.Context(), it)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create spend item",
			"date", date.String(), "name", it.Name, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidateYear(date.Year())

	writeJSON(w, http.StatusCreated, spendItemResponse{
		Ref:      ref,
		Date:     date.String(),
		Category: int(it.Category),
		Name:     it.Name,
		Price:    it.Price.Float64(),
	})
}

type itemListResponse struct {
	Year  int                 `json:"year"`
	Month int                 `json:"month,omitempty"`
	Items []spendItemResponse `json:"items"`
}

// handleListItems serves GET /items?year=[&month=].
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := parseMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var items []core.SpendItem
	if month == 0 {
		items, err = s.items.ListSpendItemsByYear(r.Context(), year)
	} else {
		items, err = s.items.ListSpendItemsByMonth(r.Context(), year, month)
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list spend items",
			"year", year, "month", month, "error", err)
		writeDomainError(w, err)
		return
	}

	resp := itemListResponse{Year: year, Month: month, Items: make([]spendItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, spendItemResponse{
			Date:     it.Date.String(),
			Category: int(it.Category),
			Name:     it.Name,
			Price:    it.Price.Float64(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteItem serves DELETE /items/{ref}.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing item reference")
		return
	}

	if err := s.items.DeleteSpendItem(r.Context(), ref); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete spend item", "ref", ref, "error", err)
		writeDomainError(w, err)
		return
	}

	// The deleted item's year is unknown from the reference alone, so every
	// cached view is dropped.
	s.statsCache.DeletePrefix("")

	w.WriteHeader(http.StatusNoContent)
}
