package api

import (
	"net/http"

	"github.com/kael/sitwell/internal/logger"
)

func (s *Server) handleDetectionStart(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.Scheduler.Start(s.baseContext()); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("detection loop started via API")
	writeJSON(w, r, http.StatusOK, map[string]any{"running": true})
}

func (s *Server) handleDetectionStop(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	s.Scheduler.Stop()

	log.Info("detection loop stopped via API")
	writeJSON(w, r, http.StatusOK, map[string]any{"running": false})
}

func (s *Server) handleDetectionStatus(w http.ResponseWriter, r *http.Request) {
	calibrated := s.Detection.EnsureCalibrated() == nil
	writeJSON(w, r, http.StatusOK, map[string]any{
		"running":    s.Scheduler.Running(),
		"calibrated": calibrated,
	})
}
