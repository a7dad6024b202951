package models

// Status is the overall verdict for one detection cycle.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusUnknown   Status = "unknown"
)

// Reason identifies why a cycle was judged incorrect (or failed outright).
type Reason string

const (
	ReasonHeadForward     Reason = "head_forward"
	ReasonHunchback       Reason = "hunchback"
	ReasonHeadTooClose    Reason = "head_too_close"
	ReasonDetectionFailed Reason = "detection_failed"
	ReasonScreenTime      Reason = "screen_time"
)

// Snapshot carries the full numeric picture behind a classification so the
// debug surfaces can show raw vs smoothed values and the thresholds in force.
type Snapshot struct {
	HeadRatio           *float64     `json:"head_ratio"`
	RawHeadForwardRatio *float64     `json:"raw_head_forward_ratio"`
	HeadForwardRatio    *float64     `json:"head_forward_ratio"`
	RawTrunkLeanDegrees *float64     `json:"raw_trunk_lean_degrees"`
	TrunkLeanDegrees    *float64     `json:"trunk_lean_degrees"`
	EarSpanRatio        *float64     `json:"ear_span_ratio"`
	ShoulderVisibility  float64      `json:"shoulder_visibility"`
	HipVisibility       float64      `json:"hip_visibility"`
	UsedWorldLandmarks  bool         `json:"used_world_landmarks"`
	UpperBodyMode       bool         `json:"upper_body_mode"`
	Thresholds          ThresholdSet `json:"thresholds"`
}

// ClassificationResult is the outcome of evaluating one frame.
type ClassificationResult struct {
	Status   Status   `json:"status"`
	Reasons  []Reason `json:"reasons"`
	Snapshot Snapshot `json:"snapshot"`
}

// HasReason reports whether the result carries the given reason.
func (r ClassificationResult) HasReason(reason Reason) bool {
	for _, have := range r.Reasons {
		if have == reason {
			return true
		}
	}
	return false
}
