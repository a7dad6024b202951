package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository/sqlite"
	"github.com/kael/sitwell/internal/scheduler"
	"github.com/kael/sitwell/internal/services"
	"github.com/kael/sitwell/internal/testutil"
)

type silentProvider struct{}

func (silentProvider) EstimatePose(context.Context) (*models.LandmarkFrame, error) { return nil, nil }
func (silentProvider) DetectFace(context.Context) (*models.FaceBox, error)         { return nil, nil }
func (silentProvider) Name() string                                                { return "silent" }
func (silentProvider) Close() error                                                { return nil }

func newScheduler(t *testing.T, calibrated bool) *scheduler.Scheduler {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	settings := models.DefaultSettings()
	if calibrated {
		settings.HeadRatioThreshold = 0.25
	}

	detection := services.NewDetectionService(
		services.NewSettingsService(sqlite.NewSettingsRepository(db)),
		services.NewStatsService(sqlite.NewStatsRepository(db)),
		sqlite.NewEventRepository(db),
		silentProvider{},
		settings,
		nil,
	)
	return scheduler.New(detection)
}

func TestScheduler_StartRefusesUncalibrated(t *testing.T) {
	s := newScheduler(t, false)

	err := s.Start(context.Background())
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeCalibrationRequired, appErr.Code)
	assert.False(t, s.Running())
}

func TestScheduler_StartStopLifecycle(t *testing.T) {
	s := newScheduler(t, true)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Running())

	// A second start while running is rejected.
	assert.Error(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.Running())

	// Stopping again is a no-op.
	s.Stop()

	// The scheduler can be restarted after a stop.
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestScheduler_StopWaitsForLoopExit(t *testing.T) {
	s := newScheduler(t, true)
	require.NoError(t, s.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, s.Running())
}
