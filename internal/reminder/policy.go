// Package reminder decides when a classification should surface a
// user-visible alert, debouncing repeats with per-reason cooldowns.
package reminder

import (
	"sync"
	"time"

	"github.com/kael/sitwell/internal/models"
)

// Config controls the debounce behavior.
type Config struct {
	// CooldownMinutes is the per-reason suppression window; values below 1
	// are raised to 1.
	CooldownMinutes int
	// ConsecutiveIncorrectThreshold is how many incorrect cycles in a row
	// must be seen before any reminder fires.
	ConsecutiveIncorrectThreshold int
}

// Policy holds the reminder debounce state: last-notified timestamp per
// reason, the previous overall status, and the consecutive-incorrect
// counter. One logical owner mutates it; the mutex covers hosts that call
// in from multiple goroutines.
type Policy struct {
	mu                   sync.Mutex
	cooldown             time.Duration
	consecutiveThreshold int
	lastSent             map[models.Reason]time.Time
	lastStatusKey        string
	consecutiveIncorrect int
}

// NewPolicy creates a Policy from config.
func NewPolicy(cfg Config) *Policy {
	minutes := cfg.CooldownMinutes
	if minutes < 1 {
		minutes = 1
	}
	threshold := cfg.ConsecutiveIncorrectThreshold
	if threshold < 1 {
		threshold = 1
	}
	return &Policy{
		cooldown:             time.Duration(minutes) * time.Minute,
		consecutiveThreshold: threshold,
		lastSent:             make(map[models.Reason]time.Time),
	}
}

// ShouldNotify observes one classification cycle and reports whether a
// reminder should surface now.
//
// A reminder is permitted when at least one reason has not fired within the
// cooldown, or unconditionally on a transition into incorrect (or the
// no-landmark detection_failed case) from a different previous status. On
// permit, every reason in the set is stamped, including ones individually
// still cooling down. The consecutive-incorrect gate runs first: any
// correct/unknown cycle resets the counter.
func (p *Policy) ShouldNotify(status models.Status, reasons []models.Reason, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := statusKey(status, reasons)
	previous := p.lastStatusKey
	p.lastStatusKey = key

	if key != string(models.StatusIncorrect) && key != string(models.ReasonDetectionFailed) {
		p.consecutiveIncorrect = 0
		return false
	}

	p.consecutiveIncorrect++
	if p.consecutiveIncorrect < p.consecutiveThreshold {
		return false
	}
	if len(reasons) == 0 {
		return false
	}

	due := previous != key
	if !due {
		for _, reason := range reasons {
			last, seen := p.lastSent[reason]
			if !seen || now.Sub(last) >= p.cooldown {
				due = true
				break
			}
		}
	}
	if due {
		for _, reason := range reasons {
			p.lastSent[reason] = now
		}
	}
	return due
}

// Reset clears all debounce state.
func (p *Policy) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSent = make(map[models.Reason]time.Time)
	p.lastStatusKey = ""
	p.consecutiveIncorrect = 0
}

// statusKey distinguishes the detection_failed flavor of unknown from plain
// unknown, so transitions into it get the same override as transitions into
// incorrect.
func statusKey(status models.Status, reasons []models.Reason) string {
	for _, reason := range reasons {
		if reason == models.ReasonDetectionFailed {
			return string(models.ReasonDetectionFailed)
		}
	}
	return string(status)
}
