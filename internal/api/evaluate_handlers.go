package api

import (
	"net/http"

	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
)

type evaluateRequest struct {
	Frame *models.LandmarkFrame `json:"frame"`
	Face  *models.FaceBox       `json:"face,omitempty"`
}

// handleEvaluate classifies one supplied frame without recording stats. A
// null frame is valid and yields the unknown/detection_failed result.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req evaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.Detection.EvaluateFrame(r.Context(), req.Frame, req.Face, models.EventSourceAPI, false)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("evaluate: status=%s, reasons=%v", result.Status, result.Reasons)
	writeJSON(w, r, http.StatusOK, result)
}
