package api

import (
	"net/http"
	"strconv"

	"github.com/kael/sitwell/internal/models"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.EventFilter{
		Status: q.Get("status"),
		Source: q.Get("source"),
		Day:    q.Get("day"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	events, err := s.Events.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	total, err := s.Events.Count(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if events == nil {
		events = []models.PostureEvent{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
	})
}
