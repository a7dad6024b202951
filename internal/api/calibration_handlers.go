package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
)

type captureSampleRequest struct {
	Frame     *models.LandmarkFrame `json:"frame"`
	Face      *models.FaceBox       `json:"face,omitempty"`
	Reference string                `json:"reference,omitempty"`
}

func (s *Server) handleCalibrationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Calibration.Status())
}

func (s *Server) handleCaptureSample(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req captureSampleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Frame == nil {
		handleError(w, r, apperrors.NewValidationError("frame", "required"))
		return
	}

	// An empty phase defers to the session; a supplied one must match it.
	phase := models.CalibrationPhase(r.URL.Query().Get("phase"))

	status, err := s.Calibration.CaptureSample(r.Context(), *req.Frame, req.Face, req.Reference, phase)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("calibration sample accepted: phase=%s, correct=%d, incorrect=%d",
		status.Phase, len(status.CorrectSamples), len(status.IncorrectSamples))
	writeJSON(w, r, http.StatusCreated, status)
}

func (s *Server) handleRemoveSample(w http.ResponseWriter, r *http.Request) {
	phase := models.CalibrationPhase(chi.URLParam(r, "phase"))
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		handleError(w, r, apperrors.NewValidationError("index", "must be an integer"))
		return
	}

	status, err := s.Calibration.RemoveSample(r.Context(), phase, index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleCalibrationReset(w http.ResponseWriter, r *http.Request) {
	zero := r.URL.Query().Get("zero") == "true"

	status, err := s.Calibration.Reset(r.Context(), zero)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}
