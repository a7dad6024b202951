package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository"
	"github.com/kael/sitwell/internal/repository/sqlite"
	"github.com/kael/sitwell/internal/services"
	"github.com/kael/sitwell/internal/testutil"
)

// scriptedProvider returns a fixed frame and face for every cycle.
type scriptedProvider struct {
	frame *models.LandmarkFrame
	face  *models.FaceBox
}

func (p *scriptedProvider) EstimatePose(context.Context) (*models.LandmarkFrame, error) {
	return p.frame, nil
}

func (p *scriptedProvider) DetectFace(context.Context) (*models.FaceBox, error) {
	return p.face, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }
func (p *scriptedProvider) Close() error { return nil }

type detectionFixture struct {
	detection *services.DetectionService
	events    repository.EventRepository
	stats     services.StatsService
	provider  *scriptedProvider
	notified  *[]string
}

// calibratedSettings returns strict-mode settings with a 0.25 head-ratio
// threshold so the numbers in assertions stay undecorated by multipliers.
func calibratedSettings() models.AppSettings {
	s := models.DefaultSettings()
	s.DetectionMode = "strict"
	s.HeadRatioThreshold = 0.25
	s.CaptureIntervalSeconds = 300
	return s
}

func newDetectionFixture(t *testing.T, loaded models.AppSettings) detectionFixture {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, db) })

	settingsService := services.NewSettingsService(sqlite.NewSettingsRepository(db))
	statsService := services.NewStatsService(sqlite.NewStatsRepository(db))
	eventRepo := sqlite.NewEventRepository(db)
	provider := &scriptedProvider{}

	var notified []string
	detection := services.NewDetectionService(
		settingsService, statsService, eventRepo, provider, loaded,
		func(message string) { notified = append(notified, message) },
	)
	return detectionFixture{
		detection: detection,
		events:    eventRepo,
		stats:     statsService,
		provider:  provider,
		notified:  &notified,
	}
}

// goodFrame is a well-framed sitter; with a small face box it classifies as
// correct under the fixture thresholds.
func goodFrame() *models.LandmarkFrame {
	return &models.LandmarkFrame{
		Width:  100,
		Height: 100,
		Landmarks: models.LandmarkSet{
			Nose:          models.Landmark{X: 0.50, Y: 0.20, Visibility: 0.99},
			LeftEar:       models.Landmark{X: 0.45, Y: 0.22, Visibility: 0.95},
			RightEar:      models.Landmark{X: 0.55, Y: 0.22, Visibility: 0.95},
			LeftShoulder:  models.Landmark{X: 0.40, Y: 0.40, Visibility: 0.98},
			RightShoulder: models.Landmark{X: 0.60, Y: 0.40, Visibility: 0.98},
			LeftHip:       models.Landmark{X: 0.42, Y: 0.75, Visibility: 0.90},
			RightHip:      models.Landmark{X: 0.58, Y: 0.75, Visibility: 0.90},
		},
	}
}

func smallFace() *models.FaceBox { return &models.FaceBox{W: 30, H: 30} } // ratio 0.09
func hugeFace() *models.FaceBox  { return &models.FaceBox{W: 60, H: 60} } // ratio 0.36

func TestDetectionService_EvaluateFrameCorrect(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())

	result, err := fx.detection.EvaluateFrame(context.Background(), goodFrame(), smallFace(), models.EventSourceAPI, false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCorrect, result.Status)
	assert.Empty(t, result.Reasons)
	require.NotNil(t, result.Snapshot.HeadRatio)
	assert.InDelta(t, 0.09, *result.Snapshot.HeadRatio, 1e-9)
	assert.Empty(t, *fx.notified)
}

func TestDetectionService_EvaluateFrameIncorrectNotifiesAndLogs(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())
	ctx := context.Background()

	result, err := fx.detection.EvaluateFrame(ctx, goodFrame(), hugeFace(), models.EventSourceAPI, false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusIncorrect, result.Status)
	assert.Contains(t, result.Reasons, models.ReasonHeadTooClose)
	require.Len(t, *fx.notified, 1)
	assert.Contains(t, (*fx.notified)[0], "too close")

	events, err := fx.events.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusIncorrect, events[0].Status)
	assert.True(t, events[0].Notified)
}

func TestDetectionService_EvaluateFrameNilFrame(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())

	result, err := fx.detection.EvaluateFrame(context.Background(), nil, nil, models.EventSourceAPI, false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusUnknown, result.Status)
	assert.Equal(t, []models.Reason{models.ReasonDetectionFailed}, result.Reasons)
}

func TestDetectionService_RecordAttributesFullInterval(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())
	ctx := context.Background()

	_, err := fx.detection.EvaluateFrame(ctx, goodFrame(), smallFace(), models.EventSourceScheduled, true)
	require.NoError(t, err)

	row, err := fx.stats.GetDaySummary(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(300), row.CorrectSeconds)
}

func TestDetectionService_RunCycle(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())
	fx.provider.frame = goodFrame()
	fx.provider.face = smallFace()
	ctx := context.Background()

	require.NoError(t, fx.detection.RunCycle(ctx))

	events, err := fx.events.List(ctx, models.EventFilter{Source: models.EventSourceScheduled})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusCorrect, events[0].Status)

	row, err := fx.stats.GetDaySummary(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(300), row.CorrectSeconds)
}

func TestDetectionService_RunCycleRefusesUncalibrated(t *testing.T) {
	fx := newDetectionFixture(t, models.DefaultSettings())

	err := fx.detection.RunCycle(context.Background())
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeCalibrationRequired, appErr.Code)
}

func TestDetectionService_RunCycleProviderMissIsUnknown(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())
	ctx := context.Background()

	require.NoError(t, fx.detection.RunCycle(ctx))

	events, err := fx.events.List(ctx, models.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.StatusUnknown, events[0].Status)
	assert.Equal(t, []models.Reason{models.ReasonDetectionFailed}, events[0].Reasons)

	row, err := fx.stats.GetDaySummary(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(300), row.UnknownSeconds)
}

func TestDetectionService_ApplySettingsRecomputesThresholds(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())
	ctx := context.Background()

	require.InDelta(t, 0.25, fx.detection.Thresholds().Current().RatioThreshold, 1e-9)

	mode := "loose"
	threshold := 0.20
	next, err := fx.detection.ApplySettings(ctx, models.SettingsPatch{
		DetectionMode:      &mode,
		HeadRatioThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, "loose", next.DetectionMode)

	assert.InDelta(t, 0.24, fx.detection.Thresholds().Current().RatioThreshold, 1e-9)
	assert.Equal(t, "loose", fx.detection.CurrentSettings().DetectionMode)
}

func TestDetectionService_ApplySettingsPrunesOldEvents(t *testing.T) {
	fx := newDetectionFixture(t, calibratedSettings())
	ctx := context.Background()

	_, err := fx.events.Insert(ctx, models.PostureEvent{
		CapturedAt: time.Now().AddDate(0, 0, -30),
		Status:     models.StatusCorrect,
		Source:     models.EventSourceScheduled,
	})
	require.NoError(t, err)

	retention := 7
	_, err = fx.detection.ApplySettings(ctx, models.SettingsPatch{RetentionDays: &retention})
	require.NoError(t, err)

	count, err := fx.events.Count(ctx, models.EventFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDetectionService_EnsureCalibrated(t *testing.T) {
	calibrated := newDetectionFixture(t, calibratedSettings())
	assert.NoError(t, calibrated.detection.EnsureCalibrated())

	uncalibrated := newDetectionFixture(t, models.DefaultSettings())
	assert.Error(t, uncalibrated.detection.EnsureCalibrated())
}
