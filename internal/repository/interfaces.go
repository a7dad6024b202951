package repository

import (
	"context"
	"time"

	"github.com/kael/sitwell/internal/models"
)

// SettingsRepository handles the persisted key/value settings.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany upserts all keys in one transaction, so a failed write never
	// leaves the settings table partially updated.
	SetMany(ctx context.Context, values map[string]string) error
	All(ctx context.Context) (map[string]string, error)
}

// StatsRepository handles the day-bucketed posture statistics.
type StatsRepository interface {
	// IncrementDaily adds the deltas (seconds) to the bucket for day,
	// creating the row when missing. Increments are append-only.
	IncrementDaily(ctx context.Context, day time.Time, correctDelta, incorrectDelta, unknownDelta int64) error
	// GetDaily returns the bucket for day, zero-valued when absent.
	GetDaily(ctx context.Context, day time.Time) (models.DailyStatsRow, error)
	// ListDaily returns the last n day buckets ending at today, oldest
	// first, synthesizing missing days as all-zero rows.
	ListDaily(ctx context.Context, n int, today time.Time) ([]models.DailyStatsRow, error)
}

// EventRepository handles the posture event log.
type EventRepository interface {
	Insert(ctx context.Context, event models.PostureEvent) (int64, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.PostureEvent, error)
	Count(ctx context.Context, filter models.EventFilter) (int, error)
	// DeleteBefore removes events captured before cutoff, for retention.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
