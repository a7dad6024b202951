package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository/sqlite"
	"github.com/kael/sitwell/internal/services"
	"github.com/kael/sitwell/internal/testutil"
)

func newStatsService(t *testing.T) services.StatsService {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })
	return services.NewStatsService(sqlite.NewStatsRepository(db))
}

func TestStatsService_RecordDetectionBuckets(t *testing.T) {
	svc := newStatsService(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RecordDetection(ctx, day, models.StatusCorrect, 300))
	require.NoError(t, svc.RecordDetection(ctx, day, models.StatusIncorrect, 300))
	require.NoError(t, svc.RecordDetection(ctx, day, models.StatusUnknown, 300))
	require.NoError(t, svc.RecordDetection(ctx, day, models.StatusCorrect, 300))

	row, err := svc.GetDaySummary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(600), row.CorrectSeconds)
	assert.Equal(t, int64(300), row.IncorrectSeconds)
	assert.Equal(t, int64(300), row.UnknownSeconds)
}

func TestStatsService_RecordDetectionRejectsNonPositiveInterval(t *testing.T) {
	svc := newStatsService(t)
	day := time.Now()

	assert.Error(t, svc.RecordDetection(context.Background(), day, models.StatusCorrect, 0))
	assert.Error(t, svc.RecordDetection(context.Background(), day, models.StatusCorrect, -5))
}

func TestStatsService_GetLastDaysWindow(t *testing.T) {
	svc := newStatsService(t)
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, svc.RecordDetection(ctx, today.AddDate(0, 0, -3), models.StatusCorrect, 600))
	require.NoError(t, svc.RecordDetection(ctx, today, models.StatusIncorrect, 300))

	rows, err := svc.GetLastDays(ctx, 7, today)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "2026-03-04", rows[0].Date)
	assert.Equal(t, int64(600), rows[3].CorrectSeconds)
	assert.Equal(t, int64(300), rows[6].IncorrectSeconds)
}

func TestStatsService_GetLastDaysValidation(t *testing.T) {
	svc := newStatsService(t)

	_, err := svc.GetLastDays(context.Background(), 0, time.Now())
	assert.Error(t, err)
}
