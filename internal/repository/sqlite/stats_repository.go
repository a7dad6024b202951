package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) IncrementDaily(ctx context.Context, day time.Time, correctDelta, incorrectDelta, unknownDelta int64) error {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	dayKey := day.Format(models.DayKeyLayout)
	log.Debug("incrementing daily stats: day=%s, correct=%d, incorrect=%d, unknown=%d", dayKey, correctDelta, incorrectDelta, unknownDelta)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO daily_stats (date, correct_seconds, incorrect_seconds, unknown_seconds, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
    correct_seconds = correct_seconds + excluded.correct_seconds,
    incorrect_seconds = incorrect_seconds + excluded.incorrect_seconds,
    unknown_seconds = unknown_seconds + excluded.unknown_seconds,
    updated_at = excluded.updated_at
`, dayKey, correctDelta, incorrectDelta, unknownDelta, now)
	if err != nil {
		log.Error("failed to increment daily stats: %v", err)
	}
	return err
}

func (r *statsRepository) GetDaily(ctx context.Context, day time.Time) (models.DailyStatsRow, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	dayKey := day.Format(models.DayKeyLayout)

	var row models.DailyStatsRow
	err := r.db.QueryRowContext(ctx, `
SELECT date, correct_seconds, incorrect_seconds, unknown_seconds
FROM daily_stats
WHERE date = ?
`, dayKey).Scan(&row.Date, &row.CorrectSeconds, &row.IncorrectSeconds, &row.UnknownSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyStatsRow{Date: dayKey}, nil
	}
	if err != nil {
		log.Error("failed to get daily stats for %s: %v", dayKey, err)
		return models.DailyStatsRow{}, err
	}
	return row, nil
}

func (r *statsRepository) ListDaily(ctx context.Context, n int, today time.Time) ([]models.DailyStatsRow, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	if n < 1 {
		n = 1
	}

	start := today.AddDate(0, 0, -(n - 1))
	startKey := start.Format(models.DayKeyLayout)
	todayKey := today.Format(models.DayKeyLayout)
	log.Debug("listing daily stats: %s..%s", startKey, todayKey)

	rows, err := r.db.QueryContext(ctx, `
SELECT date, correct_seconds, incorrect_seconds, unknown_seconds
FROM daily_stats
WHERE date BETWEEN ? AND ?
ORDER BY date ASC
`, startKey, todayKey)
	if err != nil {
		log.Error("failed to query daily stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[string]models.DailyStatsRow)
	for rows.Next() {
		var row models.DailyStatsRow
		if err := rows.Scan(&row.Date, &row.CorrectSeconds, &row.IncorrectSeconds, &row.UnknownSeconds); err != nil {
			log.Error("failed to scan daily stats row: %v", err)
			return nil, err
		}
		byDate[row.Date] = row
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Synthesize missing days as all-zero rows so callers always get a
	// contiguous window.
	out := make([]models.DailyStatsRow, 0, n)
	cursor := start
	for i := 0; i < n; i++ {
		key := cursor.Format(models.DayKeyLayout)
		if row, ok := byDate[key]; ok {
			out = append(out, row)
		} else {
			out = append(out, models.DailyStatsRow{Date: key})
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return out, nil
}
