package services

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/landmark"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/posture"
	"github.com/kael/sitwell/internal/reminder"
	"github.com/kael/sitwell/internal/repository"
)

// Notifier delivers a reminder message to the user-facing surface.
type Notifier func(message string)

// DetectionService orchestrates one classification pipeline: landmark
// provider, detector, reminder policy, stats, and the event log. It is the
// single owner of the detector's smoother state and the reminder state.
type DetectionService struct {
	mu       sync.Mutex
	settings SettingsService
	stats    StatsService
	events   repository.EventRepository
	provider landmark.Provider

	detector   *posture.Detector
	thresholds *posture.ThresholdStore
	policy     *reminder.Policy
	current    models.AppSettings
	notifier   Notifier
	log        *logger.Logger

	// screenSince marks the start of the current continuous screen session;
	// zero means nobody is in front of the camera.
	screenSince time.Time
}

// NewDetectionService wires the pipeline from loaded settings.
func NewDetectionService(
	settings SettingsService,
	stats StatsService,
	events repository.EventRepository,
	provider landmark.Provider,
	loaded models.AppSettings,
	notifier Notifier,
) *DetectionService {
	thresholds := posture.NewThresholdStore(loaded)
	svc := &DetectionService{
		settings:   settings,
		stats:      stats,
		events:     events,
		provider:   provider,
		thresholds: thresholds,
		detector: posture.NewDetector(posture.DetectorConfig{
			SmoothingAlpha: loaded.SmoothingAlpha,
			UpperBodyMode:  loaded.UpperBodyMode,
		}, thresholds),
		policy: reminder.NewPolicy(reminder.Config{
			CooldownMinutes:               loaded.ReminderCooldownMinutes,
			ConsecutiveIncorrectThreshold: loaded.ConsecutiveIncorrectThreshold,
		}),
		current:  loaded,
		notifier: notifier,
		log:      logger.Default().WithPrefix("detection"),
	}
	return svc
}

// Detector exposes the live detector, shared with the calibration flow so
// calibration and classification use the same extractor configuration.
func (s *DetectionService) Detector() *posture.Detector {
	return s.detector
}

// Thresholds exposes the operative threshold store.
func (s *DetectionService) Thresholds() *posture.ThresholdStore {
	return s.thresholds
}

// CurrentSettings returns the cached settings snapshot.
func (s *DetectionService) CurrentSettings() models.AppSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// EnsureCalibrated returns a calibration-required error while no usable
// head-ratio threshold exists; the periodic loop must not start without one.
func (s *DetectionService) EnsureCalibrated() error {
	if !s.thresholds.Calibrated() {
		return apperrors.NewCalibrationRequiredError()
	}
	return nil
}

// EvaluateFrame classifies one frame. A nil frame is the no-landmark case:
// the result is unknown with the detection_failed reason attached here, not
// in the classifier. When record is set, the full configured interval is
// attributed to the result's status bucket.
func (s *DetectionService) EvaluateFrame(ctx context.Context, frame *models.LandmarkFrame, face *models.FaceBox, source string, record bool) (models.ClassificationResult, error) {
	log := logger.FromContext(ctx)
	now := time.Now()

	var result models.ClassificationResult
	if frame == nil {
		result = models.ClassificationResult{
			Status:  models.StatusUnknown,
			Reasons: []models.Reason{models.ReasonDetectionFailed},
			Snapshot: models.Snapshot{
				Thresholds:    s.thresholds.Current(),
				UpperBodyMode: s.CurrentSettings().UpperBodyMode,
			},
		}
	} else {
		result = s.detector.Evaluate(*frame, face)
	}

	notified := s.maybeNotify(result, now)

	event := models.PostureEvent{
		CapturedAt:       now,
		Status:           result.Status,
		Reasons:          result.Reasons,
		Source:           source,
		HeadRatio:        result.Snapshot.HeadRatio,
		HeadForwardRatio: result.Snapshot.HeadForwardRatio,
		TrunkLeanDegrees: result.Snapshot.TrunkLeanDegrees,
		EarSpanRatio:     result.Snapshot.EarSpanRatio,
		Notified:         notified,
	}
	if _, err := s.events.Insert(ctx, event); err != nil {
		// The verdict is still valid; a failed log write must not halt the
		// pipeline.
		log.Error("failed to log posture event: %v", err)
	}

	if record {
		interval := s.CurrentSettings().CaptureIntervalSeconds
		if err := s.stats.RecordDetection(ctx, now, result.Status, interval); err != nil {
			log.Error("failed to record detection stats: %v", err)
			return result, err
		}
	}

	log.Debug("frame evaluated: status=%s, reasons=%v, source=%s", result.Status, result.Reasons, source)
	return result, nil
}

// RunCycle executes one scheduled detection: fetch landmarks, classify,
// record. Provider misses are normal unknown outcomes, never errors.
func (s *DetectionService) RunCycle(ctx context.Context) error {
	if err := s.EnsureCalibrated(); err != nil {
		return err
	}

	frame, err := s.provider.EstimatePose(ctx)
	if err != nil {
		// Treat a broken provider like a missed detection; the cycle still
		// completes and lands in the unknown bucket.
		s.log.Warn("pose estimation failed: %v", err)
		frame = nil
	}
	var face *models.FaceBox
	if frame != nil {
		if face, err = s.provider.DetectFace(ctx); err != nil {
			s.log.Warn("face detection failed: %v", err)
			face = nil
		}
	}

	result, err := s.EvaluateFrame(ctx, frame, face, models.EventSourceScheduled, true)
	if err != nil {
		return err
	}
	s.trackScreenTime(result, time.Now())
	return nil
}

// trackScreenTime accumulates continuous presence across scheduled cycles and
// raises a break reminder when the configured session length is exceeded. A
// failed detection counts as leaving the desk and restarts the clock.
func (s *DetectionService) trackScreenTime(result models.ClassificationResult, now time.Time) {
	s.mu.Lock()
	settings := s.current
	if result.HasReason(models.ReasonDetectionFailed) {
		s.screenSince = time.Time{}
		s.mu.Unlock()
		return
	}
	if s.screenSince.IsZero() {
		s.screenSince = now
		s.mu.Unlock()
		return
	}
	threshold := time.Duration(settings.ScreenTimeThresholdMinutes) * time.Minute
	due := settings.ScreenTimeEnabled && threshold > 0 && now.Sub(s.screenSince) >= threshold
	if due {
		s.screenSince = now
	}
	s.mu.Unlock()

	if due {
		message := reminder.BuildMessage([]models.Reason{models.ReasonScreenTime})
		s.log.Info("screen time reminder after %d minutes", settings.ScreenTimeThresholdMinutes)
		if s.notifier != nil {
			s.notifier(message)
		}
	}
}

// ApplySettings persists the patch and rebuilds the dependent pipeline
// state: operative thresholds, detector configuration (which resets the
// smoother), the reminder policy, and event retention.
func (s *DetectionService) ApplySettings(ctx context.Context, patch models.SettingsPatch) (models.AppSettings, error) {
	next, err := s.settings.Update(ctx, patch)
	if err != nil {
		return models.AppSettings{}, err
	}
	s.reconfigure(next)

	cutoff := time.Now().AddDate(0, 0, -next.RetentionDays)
	if _, err := s.events.DeleteBefore(ctx, cutoff); err != nil {
		s.log.Warn("event retention cleanup failed: %v", err)
	}
	return next, nil
}

// ReloadThresholds refreshes the cached settings and recomputes the
// operative thresholds. Called after calibration writes new base values.
func (s *DetectionService) ReloadThresholds(ctx context.Context) error {
	next, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	s.reconfigure(next)
	return nil
}

func (s *DetectionService) reconfigure(next models.AppSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.thresholds.Recompute(next)
	if next.SmoothingAlpha != s.current.SmoothingAlpha || next.UpperBodyMode != s.current.UpperBodyMode {
		s.detector.Reconfigure(posture.DetectorConfig{
			SmoothingAlpha: next.SmoothingAlpha,
			UpperBodyMode:  next.UpperBodyMode,
		})
	}
	if next.ReminderCooldownMinutes != s.current.ReminderCooldownMinutes ||
		next.ConsecutiveIncorrectThreshold != s.current.ConsecutiveIncorrectThreshold {
		s.policy = reminder.NewPolicy(reminder.Config{
			CooldownMinutes:               next.ReminderCooldownMinutes,
			ConsecutiveIncorrectThreshold: next.ConsecutiveIncorrectThreshold,
		})
	}
	s.current = next
}

func (s *DetectionService) maybeNotify(result models.ClassificationResult, now time.Time) bool {
	s.mu.Lock()
	policy := s.policy
	s.mu.Unlock()

	if !policy.ShouldNotify(result.Status, result.Reasons, now) {
		return false
	}
	message := reminder.BuildMessage(result.Reasons)
	s.log.Info("reminder: %s", message)
	if s.notifier != nil {
		s.notifier(message)
	}
	return true
}
