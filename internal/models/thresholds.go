package models

import "strings"

// DetectionMode scales the calibrated thresholds by a strictness multiplier.
type DetectionMode string

const (
	ModeStrict DetectionMode = "strict"
	ModeNormal DetectionMode = "normal"
	ModeLoose  DetectionMode = "loose"
)

// ParseDetectionMode normalizes a stored mode string. Unrecognized values
// fall back to normal.
func ParseDetectionMode(s string) DetectionMode {
	switch DetectionMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStrict:
		return ModeStrict
	case ModeLoose:
		return ModeLoose
	default:
		return ModeNormal
	}
}

// Multiplier returns the strictness multiplier applied to base thresholds.
func (m DetectionMode) Multiplier() float64 {
	switch m {
	case ModeStrict:
		return 1.0
	case ModeLoose:
		return 1.2
	default:
		return 1.1
	}
}

// ThresholdSet holds the operative thresholds the classifier compares
// against. All values are in (0,1] except the hunchback threshold, which is
// in degrees in (0,45].
type ThresholdSet struct {
	RatioThreshold            float64 `json:"ratio_threshold"`
	HeadForwardThreshold      float64 `json:"head_forward_threshold"`
	HunchbackThresholdDegrees float64 `json:"hunchback_threshold_degrees"`
	EarSpanTooCloseThreshold  float64 `json:"ear_span_too_close_threshold"`
}
