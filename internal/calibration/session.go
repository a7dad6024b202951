// Package calibration drives the guided two-phase sample collection that
// derives person-specific posture thresholds.
package calibration

import (
	"fmt"
	"math"
	"sync"
	"time"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/models"
)

// Defaults and floors for the sample counts, and the safety margin applied
// when the correct and incorrect samples overlap.
const (
	DefaultRequiredCorrect   = 3
	MinRequiredCorrect       = 2
	DefaultRequiredIncorrect = 2
	MinRequiredIncorrect     = 1
	DefaultSafetyMargin      = 0.30
)

// Config sizes a calibration session.
type Config struct {
	RequiredCorrect   int
	RequiredIncorrect int
	SafetyMargin      float64
}

func (c Config) normalized() Config {
	if c.RequiredCorrect < MinRequiredCorrect {
		c.RequiredCorrect = DefaultRequiredCorrect
	}
	if c.RequiredIncorrect < MinRequiredIncorrect {
		c.RequiredIncorrect = DefaultRequiredIncorrect
	}
	if c.SafetyMargin < 0 {
		c.SafetyMargin = DefaultSafetyMargin
	}
	return c
}

// Session is the calibration state machine:
// collecting_correct → collecting_incorrect → completed.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	phase     models.CalibrationPhase
	correct   []models.CalibrationSample
	incorrect []models.CalibrationSample
}

// NewSession creates a session in the collecting_correct phase.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:   cfg.normalized(),
		phase: models.PhaseCollectingCorrect,
	}
}

// Capture records one sample for the current phase. A non-empty expected
// phase must match the session's current phase, so a stale client cannot file
// a sample under the wrong list. The capture is accepted only when the
// extractor produced a defined head ratio; otherwise the counts stay
// untouched and a retake error is returned. The second return value reports
// that the incorrect list reached its required length, which means the
// session is ready to finalize.
func (s *Session) Capture(features models.GeometryFeatures, expected models.CalibrationPhase, reference string, at time.Time) (models.CalibrationPhase, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == models.PhaseCompleted {
		return s.phase, false, apperrors.NewBadRequestError("calibration already completed; reset the session to recalibrate")
	}
	if expected != "" && expected != s.phase {
		return s.phase, false, apperrors.NewValidationError("phase", fmt.Sprintf("session is collecting %q, not %q", s.phase, expected))
	}
	if !features.HeadRatio.Defined {
		return s.phase, false, apperrors.NewNoFaceDetectedError("no face detected in the capture; adjust lighting or camera angle and retake")
	}

	sample := models.CalibrationSample{
		HeadRatio:        features.HeadRatio.Value,
		HeadForwardRatio: features.HeadForwardRatio.Ptr(),
		Reference:        reference,
		CapturedAt:       at,
	}

	switch s.phase {
	case models.PhaseCollectingCorrect:
		s.correct = append(s.correct, sample)
		if len(s.correct) >= s.cfg.RequiredCorrect {
			s.phase = models.PhaseCollectingIncorrect
		}
	case models.PhaseCollectingIncorrect:
		s.incorrect = append(s.incorrect, sample)
	}

	ready := s.phase == models.PhaseCollectingIncorrect && len(s.incorrect) >= s.cfg.RequiredIncorrect
	return s.phase, ready, nil
}

// RemoveSample drops one sample by index from the named list. Removal never
// regresses the phase, even when the count falls back below the requirement;
// the counts only gate the phase transitions, and finalize works from
// whatever samples remain. Once the incorrect phase has started, the correct
// list must keep at least one sample so finalize stays well-defined.
func (s *Session) RemoveSample(phase models.CalibrationPhase, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == models.PhaseCompleted {
		return apperrors.NewBadRequestError("calibration already completed; nothing to remove")
	}

	var list *[]models.CalibrationSample
	switch phase {
	case models.PhaseCollectingCorrect:
		list = &s.correct
	case models.PhaseCollectingIncorrect:
		list = &s.incorrect
	default:
		return apperrors.NewValidationError("phase", fmt.Sprintf("unknown sample list %q", phase))
	}

	if phase == models.PhaseCollectingCorrect && s.phase == models.PhaseCollectingIncorrect && len(s.correct) <= 1 {
		return apperrors.NewBadRequestError("the last correct sample cannot be removed after the incorrect phase has started; reset the session to retake")
	}

	if index < 0 || index >= len(*list) {
		return apperrors.NewNotFoundError("calibration sample", index)
	}
	*list = append((*list)[:index], (*list)[index+1:]...)
	return nil
}

// Finalize derives the calibrated thresholds, marks the session completed,
// and clears the sample lists. The required counts are enforced at the phase
// transitions, so finalize only demands that both lists still hold samples;
// calling it with an empty side is an internal invariant violation.
func (s *Session) Finalize() (models.CalibrationOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.correct) == 0 || len(s.incorrect) == 0 {
		return models.CalibrationOutcome{}, apperrors.NewCalibrationNotReadyError(fmt.Sprintf(
			"finalize called with %d correct and %d incorrect samples",
			len(s.correct), len(s.incorrect),
		))
	}

	outcome := models.CalibrationOutcome{
		RatioThreshold: deriveThreshold(headRatios(s.correct), headRatios(s.incorrect), s.cfg.SafetyMargin),
	}

	// The head-forward threshold is only calibrated when both phases
	// produced head-forward samples; otherwise it stays 0 and the runtime
	// falls back to its default constant.
	correctHF := headForwardRatios(s.correct)
	incorrectHF := headForwardRatios(s.incorrect)
	if len(correctHF) > 0 && len(incorrectHF) > 0 {
		outcome.HeadForwardThreshold = deriveThreshold(correctHF, incorrectHF, s.cfg.SafetyMargin)
	}

	s.phase = models.PhaseCompleted
	s.correct = nil
	s.incorrect = nil
	return outcome, nil
}

// Reset clears both sample lists and returns to the initial phase. It never
// touches an already-persisted threshold; zeroing that is the caller's
// explicit decision.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = models.PhaseCollectingCorrect
	s.correct = nil
	s.incorrect = nil
}

// Status reports the observable session state. The caller supplies the
// currently persisted ratio threshold for the payload.
func (s *Session) Status(ratioThreshold float64) models.CalibrationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CalibrationStatus{
		Phase:             s.phase,
		CorrectSamples:    append([]models.CalibrationSample(nil), s.correct...),
		IncorrectSamples:  append([]models.CalibrationSample(nil), s.incorrect...),
		RequiredCorrect:   s.cfg.RequiredCorrect,
		RequiredIncorrect: s.cfg.RequiredIncorrect,
		RatioThreshold:    ratioThreshold,
	}
}

// deriveThreshold places the threshold midway between the sample sets when
// they separate cleanly, and falls back to a safety margin above the worst
// correct sample when they overlap. Rounded to four decimals.
func deriveThreshold(correct, incorrect []float64, margin float64) float64 {
	mc := maxOf(correct)
	mi := minOf(incorrect)
	var threshold float64
	if mi > mc {
		threshold = (mc + mi) / 2
	} else {
		threshold = mc * (1 + margin)
	}
	return round4(threshold)
}

func headRatios(samples []models.CalibrationSample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.HeadRatio)
	}
	return out
}

func headForwardRatios(samples []models.CalibrationSample) []float64 {
	var out []float64
	for _, s := range samples {
		if s.HeadForwardRatio != nil {
			out = append(out, *s.HeadForwardRatio)
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
