package posture

import (
	"sync"

	"github.com/kael/sitwell/internal/models"
)

// DetectorConfig controls smoothing and the upper-body operating mode.
type DetectorConfig struct {
	SmoothingAlpha float64
	UpperBodyMode  bool
}

// Detector is one live classification pipeline: extractor, smoother, and
// classifier over a shared threshold store. The smoother state belongs to
// exactly this instance; all entry points serialize on the mutex so feature
// extraction and smoothing form a strict single-writer sequence.
type Detector struct {
	mu         sync.Mutex
	cfg        DetectorConfig
	smoother   *Smoother
	thresholds *ThresholdStore
}

// NewDetector creates a detector over the given threshold store.
func NewDetector(cfg DetectorConfig, thresholds *ThresholdStore) *Detector {
	return &Detector{
		cfg:        cfg,
		smoother:   NewSmoother(cfg.SmoothingAlpha),
		thresholds: thresholds,
	}
}

// Evaluate runs the full extract → smooth → classify pipeline on one frame.
func (d *Detector) Evaluate(frame models.LandmarkFrame, face *models.FaceBox) models.ClassificationResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw := Extract(frame, face)
	smoothed := d.smoother.Smooth(raw)
	thresholds := d.thresholds.Current()
	status, reasons := Classify(smoothed, thresholds, d.cfg.UpperBodyMode)

	return models.ClassificationResult{
		Status:  status,
		Reasons: reasons,
		Snapshot: models.Snapshot{
			HeadRatio:           smoothed.HeadRatio.Ptr(),
			RawHeadForwardRatio: raw.HeadForwardRatio.Ptr(),
			HeadForwardRatio:    smoothed.HeadForwardRatio.Ptr(),
			RawTrunkLeanDegrees: raw.TrunkLeanDegrees.Ptr(),
			TrunkLeanDegrees:    smoothed.TrunkLeanDegrees.Ptr(),
			EarSpanRatio:        smoothed.EarSpanRatio.Ptr(),
			ShoulderVisibility:  smoothed.ShoulderVisibility,
			HipVisibility:       smoothed.HipVisibility,
			UsedWorldLandmarks:  smoothed.UsedWorld,
			UpperBodyMode:       d.cfg.UpperBodyMode,
			Thresholds:          thresholds,
		},
	}
}

// RawFeatures extracts features without touching the smoother. Calibration
// captures go through here so the derived thresholds depend only on the
// captured samples, not on whatever live frames preceded them.
func (d *Detector) RawFeatures(frame models.LandmarkFrame, face *models.FaceBox) models.GeometryFeatures {
	return Extract(frame, face)
}

// Reconfigure replaces the detector configuration and resets the smoother
// state, as recreating the instance would.
func (d *Detector) Reconfigure(cfg DetectorConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.smoother = NewSmoother(cfg.SmoothingAlpha)
}

// Thresholds exposes the shared threshold store.
func (d *Detector) Thresholds() *ThresholdStore {
	return d.thresholds
}
