package services

import (
	"context"
	"time"

	"github.com/kael/sitwell/internal/calibration"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
)

// CalibrationService runs the guided calibration flow over the live detector
// and persists the derived thresholds once both phases are complete.
type CalibrationService struct {
	session   *calibration.Session
	detection *DetectionService
}

// NewCalibrationService sizes the session from the loaded settings.
func NewCalibrationService(detection *DetectionService, loaded models.AppSettings) *CalibrationService {
	return &CalibrationService{
		session: calibration.NewSession(calibration.Config{
			RequiredCorrect:   loaded.RequiredCorrectSamples,
			RequiredIncorrect: loaded.RequiredIncorrectSamples,
			SafetyMargin:      calibration.DefaultSafetyMargin,
		}),
		detection: detection,
	}
}

// CaptureSample extracts raw features from one frame and records them for the
// current phase. A non-empty expected phase is checked against the session so
// a stale client cannot file a sample under the wrong list. The extractor is
// used directly, without smoothing, so the derived thresholds reflect the
// captured postures alone. When the sample completes the incorrect phase the
// session finalizes automatically and the new thresholds are persisted.
func (s *CalibrationService) CaptureSample(ctx context.Context, frame models.LandmarkFrame, face *models.FaceBox, reference string, expected models.CalibrationPhase) (models.CalibrationStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("calibration")

	features := s.detection.Detector().RawFeatures(frame, face)
	phase, ready, err := s.session.Capture(features, expected, reference, time.Now())
	if err != nil {
		return models.CalibrationStatus{}, err
	}
	log.Debug("sample captured: phase=%s, ready=%t", phase, ready)

	if ready {
		if err := s.finalize(ctx); err != nil {
			return models.CalibrationStatus{}, err
		}
	}
	return s.Status(), nil
}

// RemoveSample drops one previously captured sample so the user can retake it.
func (s *CalibrationService) RemoveSample(ctx context.Context, phase models.CalibrationPhase, index int) (models.CalibrationStatus, error) {
	if err := s.session.RemoveSample(phase, index); err != nil {
		return models.CalibrationStatus{}, err
	}
	return s.Status(), nil
}

// Reset discards the in-memory sample lists and restarts the flow. With
// zeroThresholds set, the persisted thresholds are cleared too and the
// detection loop refuses to run until the user recalibrates.
func (s *CalibrationService) Reset(ctx context.Context, zeroThresholds bool) (models.CalibrationStatus, error) {
	log := logger.FromContext(ctx).WithPrefix("calibration")

	s.session.Reset()
	if zeroThresholds {
		zero := 0.0
		if _, err := s.detection.ApplySettings(ctx, models.SettingsPatch{
			HeadRatioThreshold:   &zero,
			HeadForwardThreshold: &zero,
		}); err != nil {
			return models.CalibrationStatus{}, err
		}
		log.Info("calibration reset: thresholds cleared")
	} else {
		log.Info("calibration reset: samples discarded, thresholds kept")
	}
	return s.Status(), nil
}

// Status reports the session state alongside the currently persisted
// ratio threshold.
func (s *CalibrationService) Status() models.CalibrationStatus {
	return s.session.Status(s.detection.CurrentSettings().HeadRatioThreshold)
}

func (s *CalibrationService) finalize(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("calibration")

	outcome, err := s.session.Finalize()
	if err != nil {
		return err
	}

	patch := models.SettingsPatch{HeadRatioThreshold: &outcome.RatioThreshold}
	if outcome.HeadForwardThreshold > 0 {
		patch.HeadForwardThreshold = &outcome.HeadForwardThreshold
	}
	if _, err := s.detection.ApplySettings(ctx, patch); err != nil {
		return err
	}

	log.Info("calibration completed: ratio_threshold=%.4f, head_forward_threshold=%.4f",
		outcome.RatioThreshold, outcome.HeadForwardThreshold)
	return nil
}
