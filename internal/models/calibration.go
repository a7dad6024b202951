package models

import "time"

// CalibrationPhase is the state of the guided calibration flow.
type CalibrationPhase string

const (
	PhaseCollectingCorrect   CalibrationPhase = "collecting_correct"
	PhaseCollectingIncorrect CalibrationPhase = "collecting_incorrect"
	PhaseCompleted           CalibrationPhase = "completed"
)

// CalibrationSample is one accepted capture. HeadForwardRatio may be
// unavailable when the pose landmarks did not yield it; such samples still
// count toward the head-ratio calibration.
type CalibrationSample struct {
	HeadRatio        float64   `json:"head_ratio"`
	HeadForwardRatio *float64  `json:"head_forward_ratio,omitempty"`
	Reference        string    `json:"reference,omitempty"`
	CapturedAt       time.Time `json:"captured_at"`
}

// CalibrationStatus is the observable session state for UI/API clients.
type CalibrationStatus struct {
	Phase             CalibrationPhase    `json:"phase"`
	CorrectSamples    []CalibrationSample `json:"correct_samples"`
	IncorrectSamples  []CalibrationSample `json:"incorrect_samples"`
	RequiredCorrect   int                 `json:"required_correct"`
	RequiredIncorrect int                 `json:"required_incorrect"`
	RatioThreshold    float64             `json:"ratio_threshold"`
}

// CalibrationOutcome is the thresholds derived by finalize, rounded to four
// decimals. HeadForwardThreshold is 0 when the head-forward side stayed
// uncalibrated.
type CalibrationOutcome struct {
	RatioThreshold       float64 `json:"ratio_threshold"`
	HeadForwardThreshold float64 `json:"head_forward_threshold"`
}
