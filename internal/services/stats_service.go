package services

import (
	"context"
	"time"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository"
)

// StatsService accumulates per-status seconds into day buckets and answers
// summary queries.
type StatsService interface {
	// RecordDetection attributes the full interval of one completed cycle
	// to exactly one status bucket for day.
	RecordDetection(ctx context.Context, day time.Time, status models.Status, intervalSeconds int) error
	GetDaySummary(ctx context.Context, day time.Time) (models.DailyStatsRow, error)
	// GetLastDays returns the n-day window ending at today, oldest first,
	// with missing days synthesized as zero rows.
	GetLastDays(ctx context.Context, n int, today time.Time) ([]models.DailyStatsRow, error)
}

type statsService struct {
	repo repository.StatsRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(repo repository.StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) RecordDetection(ctx context.Context, day time.Time, status models.Status, intervalSeconds int) error {
	log := logger.FromContext(ctx)
	if intervalSeconds <= 0 {
		return apperrors.NewValidationError("interval_seconds", "must be positive")
	}

	var correct, incorrect, unknown int64
	switch status {
	case models.StatusCorrect:
		correct = int64(intervalSeconds)
	case models.StatusIncorrect:
		incorrect = int64(intervalSeconds)
	default:
		unknown = int64(intervalSeconds)
	}

	if err := s.repo.IncrementDaily(ctx, day, correct, incorrect, unknown); err != nil {
		log.Error("failed to record detection: %v", err)
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *statsService) GetDaySummary(ctx context.Context, day time.Time) (models.DailyStatsRow, error) {
	row, err := s.repo.GetDaily(ctx, day)
	if err != nil {
		return models.DailyStatsRow{}, apperrors.NewInternalError(err)
	}
	return row, nil
}

func (s *statsService) GetLastDays(ctx context.Context, n int, today time.Time) ([]models.DailyStatsRow, error) {
	if n < 1 {
		return nil, apperrors.NewValidationError("days", "must be at least 1")
	}
	rows, err := s.repo.ListDaily(ctx, n, today)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return rows, nil
}
