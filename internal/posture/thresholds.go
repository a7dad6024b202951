package posture

import (
	"sync"

	"github.com/kael/sitwell/internal/models"
)

// Hardcoded bases used when no calibrated value exists, and the clamps the
// operative thresholds never exceed.
const (
	DefaultHeadForwardThreshold = 0.18
	DefaultHunchbackDegrees     = 14.0
	DefaultEarSpanTooClose      = 0.30

	maxRatioThreshold   = 1.0
	maxHunchbackDegrees = 45.0
)

// ComputeThresholds derives the operative ThresholdSet from the persisted
// settings: calibrated (or default) bases scaled by the detection-mode
// multiplier and clamped. A zero head-ratio base stays zero, which keeps the
// store reporting "uncalibrated".
func ComputeThresholds(settings models.AppSettings) models.ThresholdSet {
	m := models.ParseDetectionMode(settings.DetectionMode).Multiplier()

	headForwardBase := settings.HeadForwardThreshold
	if headForwardBase <= 0 {
		headForwardBase = DefaultHeadForwardThreshold
	}

	return models.ThresholdSet{
		RatioThreshold:            clamp(settings.HeadRatioThreshold*m, maxRatioThreshold),
		HeadForwardThreshold:      clamp(headForwardBase*m, maxRatioThreshold),
		HunchbackThresholdDegrees: clamp(DefaultHunchbackDegrees*m, maxHunchbackDegrees),
		EarSpanTooCloseThreshold:  clamp(DefaultEarSpanTooClose*m, maxRatioThreshold),
	}
}

func clamp(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}

// ThresholdStore holds the operative thresholds. It is recomputed on every
// settings change and calibration completion, and read on every cycle, so
// access is mutex-protected.
type ThresholdStore struct {
	mu  sync.RWMutex
	set models.ThresholdSet
}

// NewThresholdStore creates a store seeded from the given settings.
func NewThresholdStore(settings models.AppSettings) *ThresholdStore {
	return &ThresholdStore{set: ComputeThresholds(settings)}
}

// Recompute rebuilds the operative thresholds from settings.
func (s *ThresholdStore) Recompute(settings models.AppSettings) {
	set := ComputeThresholds(settings)
	s.mu.Lock()
	s.set = set
	s.mu.Unlock()
}

// Current returns the thresholds in force.
func (s *ThresholdStore) Current() models.ThresholdSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// Calibrated reports whether a usable head-ratio threshold exists. The
// periodic detection loop must not run while this is false.
func (s *ThresholdStore) Calibrated() bool {
	return s.Current().RatioThreshold > 0
}
