package api

import (
	"net/http"
	"strconv"
	"time"
)

func (s *Server) handleStatsToday(w http.ResponseWriter, r *http.Request) {
	row, err := s.Stats.GetDaySummary(r.Context(), time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, row)
}

func (s *Server) handleStatsHistory(w http.ResponseWriter, r *http.Request) {
	days := 7
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		days = d
	}

	rows, err := s.Stats.GetLastDays(r.Context(), days, time.Now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"days":  days,
		"stats": rows,
	})
}
