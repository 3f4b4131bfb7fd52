package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/core"
)

type dayLogRequest struct {
	HourlyLog  []int           `json:"hourlyLog"`
	TotalSpend json.RawMessage `json:"totalSpend"`
	Highlight  string          `json:"highlight"`
}

type dayLogResponse struct {
	Date       string  `json:"date"`
	HourlyLog  []int   `json:"hourlyLog"`
	TotalSpend float64 `json:"totalSpend"`
	Highlight  string  `json:"highlight,omitempty"`
}

func dayLogToResponse(dl core.DayLog) dayLogResponse {
	return dayLogResponse{
		Date:       dl.Date.String(),
		HourlyLog:  dl.Hourly.Slice(),
		TotalSpend: dl.TotalSpend.Float64(),
		Highlight:  dl.Highlight,
	}
}

// parseSpend accepts a decimal amount as either a JSON number or a string.
func parseSpend(raw json.RawMessage) (core.Money, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return core.Money{}, nil
	}
	trimmed = bytes.Trim(trimmed, `"`)
	cents, err := core.ParseDecimalToCents(string(trimmed))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// handleUpsertDay serves PUT /days/{date}. A second PUT for the same date
// replaces the record. A wrong-length hourly log is recoverable: it degrades
// to all-unlogged with a warning instead of failing the request.
func (s *Server) handleUpsertDay(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var req dayLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hourly, err := core.NormalizeHourly(req.HourlyLog)
	if err != nil {
		slog.WarnContext(r.Context(), "Hourly log malformed, storing as unlogged",
			"date", date.String(), "length", len(req.HourlyLog))
	}

	spend, err := parseSpend(req.TotalSpend)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid totalSpend amount")
		return
	}

	dl := core.DayLog{
		Date:       date,
		Hourly:     hourly,
		TotalSpend: spend,
		Highlight:  sanitizeInput(req.Highlight),
	}
	if err := dl.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	ref, err := s.days.UpsertDayLog(r.Context(), dl)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to upsert day log",
			"date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidateYear(date.Year())

	writeJSON(w, http.StatusOK, map[string]string{"ref": ref, "date": date.String()})
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	dl, found, err := s.days.GetDayLog(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to get day log",
			"date", date.String(), "error", err)
		writeDomainError(w, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no record for date")
		return
	}

	writeJSON(w, http.StatusOK, dayLogToResponse(dl))
}

type dayListResponse struct {
	Year int              `json:"year"`
	Days []dayLogResponse `json:"days"`
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	year, err := parseYear(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dayLogs, err := s.days.ListDayLogsByYear(r.Context(), year)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list day logs", "year", year, "error", err)
		writeDomainError(w, err)
		return
	}

	resp := dayListResponse{Year: year, Days: make([]dayLogResponse, 0, len(dayLogs))}
	for _, dl := range dayLogs {
		resp.Days = append(resp.Days, dayLogToResponse(dl))
	}
	writeJSON(w, http.StatusOK, resp)
}
