package api

import (
	"net/http"

	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Detection.CurrentSettings())
}

// handleUpdateSettings applies a partial update and rebuilds the dependent
// pipeline state (thresholds, smoother, reminder policy).
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var patch models.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, err)
		return
	}

	next, err := s.Detection.ApplySettings(r.Context(), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("settings updated via API")
	writeJSON(w, r, http.StatusOK, next)
}
