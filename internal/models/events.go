package models

import "time"

// PostureEvent is one logged evaluation, with the numeric snapshot flattened
// for querying.
type PostureEvent struct {
	ID               int64     `json:"id"`
	CapturedAt       time.Time `json:"captured_at"`
	Status           Status    `json:"status"`
	Reasons          []Reason  `json:"reasons"`
	Source           string    `json:"source"`
	HeadRatio        *float64  `json:"head_ratio"`
	HeadForwardRatio *float64  `json:"head_forward_ratio"`
	TrunkLeanDegrees *float64  `json:"trunk_lean_degrees"`
	EarSpanRatio     *float64  `json:"ear_span_ratio"`
	Notified         bool      `json:"notified"`
}

// Event sources.
const (
	EventSourceScheduled = "scheduled"
	EventSourceAPI       = "api"
	EventSourceManual    = "manual"
)

// EventFilter narrows posture event listings. Zero values mean "any".
type EventFilter struct {
	Status string
	Source string
	Day    string // DayKeyLayout date
	Limit  int
	Offset int
}
