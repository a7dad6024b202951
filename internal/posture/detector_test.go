package posture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kael/sitwell/internal/posture"
)

func newCalibratedStore() *posture.ThresholdStore {
	return posture.NewThresholdStore(calibratedSettings("strict"))
}

func TestDetector_EvaluateSmoothsAcrossFrames(t *testing.T) {
	d := posture.NewDetector(posture.DetectorConfig{SmoothingAlpha: 0.5}, newCalibratedStore())

	frame := upright()
	first := d.Evaluate(frame, nil)
	require.NotNil(t, first.Snapshot.HeadForwardRatio)
	firstValue := *first.Snapshot.HeadForwardRatio

	// Lean in: the smoothed value lags the raw one.
	frame.Landmarks.Nose.X = 0.60
	second := d.Evaluate(frame, nil)
	require.NotNil(t, second.Snapshot.RawHeadForwardRatio)
	require.NotNil(t, second.Snapshot.HeadForwardRatio)
	raw := *second.Snapshot.RawHeadForwardRatio
	smoothed := *second.Snapshot.HeadForwardRatio

	assert.Greater(t, raw, firstValue)
	assert.InDelta(t, 0.5*raw+0.5*firstValue, smoothed, 1e-9)
}

func TestDetector_RawFeaturesBypassesSmoother(t *testing.T) {
	d := posture.NewDetector(posture.DetectorConfig{SmoothingAlpha: 0.3}, newCalibratedStore())

	// Prime the smoother with a leaned-in frame.
	leaned := upright()
	leaned.Landmarks.Nose.X = 0.70
	d.Evaluate(leaned, nil)

	// A raw extraction of the upright frame must not show any influence of
	// the primed filter state, and must not disturb it either.
	rawBefore := d.RawFeatures(upright(), nil)
	pure := posture.Extract(upright(), nil)
	assert.Equal(t, pure, rawBefore)

	next := d.Evaluate(leaned, nil)
	require.NotNil(t, next.Snapshot.HeadForwardRatio)
	require.NotNil(t, next.Snapshot.RawHeadForwardRatio)
	// Constant input: the filter had converged before the raw extraction and
	// stays converged after it.
	assert.InDelta(t, *next.Snapshot.RawHeadForwardRatio, *next.Snapshot.HeadForwardRatio, 1e-9)
}

func TestDetector_ReconfigureResetsSmoother(t *testing.T) {
	d := posture.NewDetector(posture.DetectorConfig{SmoothingAlpha: 0.3}, newCalibratedStore())

	leaned := upright()
	leaned.Landmarks.Nose.X = 0.70
	d.Evaluate(leaned, nil)

	d.Reconfigure(posture.DetectorConfig{SmoothingAlpha: 0.3})

	// The first frame after a reset passes through unsmoothed.
	result := d.Evaluate(upright(), nil)
	require.NotNil(t, result.Snapshot.RawHeadForwardRatio)
	require.NotNil(t, result.Snapshot.HeadForwardRatio)
	assert.Equal(t, *result.Snapshot.RawHeadForwardRatio, *result.Snapshot.HeadForwardRatio)
}

func TestDetector_SnapshotCarriesThresholdsAndMode(t *testing.T) {
	store := newCalibratedStore()
	d := posture.NewDetector(posture.DetectorConfig{SmoothingAlpha: 0.3, UpperBodyMode: true}, store)

	result := d.Evaluate(upright(), nil)

	assert.True(t, result.Snapshot.UpperBodyMode)
	assert.Equal(t, store.Current(), result.Snapshot.Thresholds)
}
