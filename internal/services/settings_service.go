package services

import (
	"context"
	"strconv"

	apperrors "github.com/kael/sitwell/internal/errors"
	"github.com/kael/sitwell/internal/logger"
	"github.com/kael/sitwell/internal/models"
	"github.com/kael/sitwell/internal/repository"
)

// Settings keys as persisted in the key/value table.
const (
	keyCaptureIntervalSeconds        = "capture_interval_seconds"
	keyReminderMethod                = "reminder_method"
	keyReminderCooldownMinutes       = "reminder_cooldown_minutes"
	keyConsecutiveIncorrectThreshold = "consecutive_incorrect_threshold"
	keyScreenTimeEnabled             = "screen_time_enabled"
	keyScreenTimeThresholdMinutes    = "screen_time_threshold_minutes"
	keyRetentionDays                 = "retention_days"
	keyHeadRatioThreshold            = "head_ratio_threshold"
	keyHeadForwardThreshold          = "head_forward_threshold"
	keyDetectionMode                 = "detection_mode"
	keyUpperBodyMode                 = "upper_body_mode"
	keySmoothingAlpha                = "smoothing_alpha"
	keyRequiredCorrectSamples        = "required_correct_samples"
	keyRequiredIncorrectSamples      = "required_incorrect_samples"

	// Older versions stored the capture interval in minutes.
	legacyKeyCaptureIntervalMinutes = "capture_interval_minutes"
)

// SettingsService handles the typed settings over the key/value store.
type SettingsService interface {
	Load(ctx context.Context) (models.AppSettings, error)
	Update(ctx context.Context, patch models.SettingsPatch) (models.AppSettings, error)
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

type settingsService struct {
	repo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Load(ctx context.Context) (models.AppSettings, error) {
	log := logger.FromContext(ctx)

	stored, err := s.repo.All(ctx)
	if err != nil {
		log.Error("failed to load settings: %v", err)
		return models.AppSettings{}, apperrors.NewInternalError(err)
	}

	settings := models.DefaultSettings()

	// Migrate the legacy minutes-based interval when no seconds value has
	// been written yet.
	if _, ok := stored[keyCaptureIntervalSeconds]; !ok {
		if legacy, ok := stored[legacyKeyCaptureIntervalMinutes]; ok {
			if minutes, err := strconv.Atoi(legacy); err == nil {
				if minutes < 1 {
					minutes = 1
				}
				settings.CaptureIntervalSeconds = minutes * 60
			}
		}
	}

	settings.CaptureIntervalSeconds = intSetting(stored, keyCaptureIntervalSeconds, settings.CaptureIntervalSeconds)
	settings.ReminderMethod = stringSetting(stored, keyReminderMethod, settings.ReminderMethod)
	settings.ReminderCooldownMinutes = intSetting(stored, keyReminderCooldownMinutes, settings.ReminderCooldownMinutes)
	settings.ConsecutiveIncorrectThreshold = intSetting(stored, keyConsecutiveIncorrectThreshold, settings.ConsecutiveIncorrectThreshold)
	settings.ScreenTimeEnabled = boolSetting(stored, keyScreenTimeEnabled, settings.ScreenTimeEnabled)
	settings.ScreenTimeThresholdMinutes = intSetting(stored, keyScreenTimeThresholdMinutes, settings.ScreenTimeThresholdMinutes)
	settings.RetentionDays = intSetting(stored, keyRetentionDays, settings.RetentionDays)
	settings.HeadRatioThreshold = floatSetting(stored, keyHeadRatioThreshold, settings.HeadRatioThreshold)
	settings.HeadForwardThreshold = floatSetting(stored, keyHeadForwardThreshold, settings.HeadForwardThreshold)
	settings.DetectionMode = stringSetting(stored, keyDetectionMode, settings.DetectionMode)
	settings.UpperBodyMode = boolSetting(stored, keyUpperBodyMode, settings.UpperBodyMode)
	settings.SmoothingAlpha = floatSetting(stored, keySmoothingAlpha, settings.SmoothingAlpha)
	settings.RequiredCorrectSamples = intSetting(stored, keyRequiredCorrectSamples, settings.RequiredCorrectSamples)
	settings.RequiredIncorrectSamples = intSetting(stored, keyRequiredIncorrectSamples, settings.RequiredIncorrectSamples)

	settings.DetectionMode = string(models.ParseDetectionMode(settings.DetectionMode))
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, patch models.SettingsPatch) (models.AppSettings, error) {
	log := logger.FromContext(ctx)

	current, err := s.Load(ctx)
	if err != nil {
		return models.AppSettings{}, err
	}

	next := patch.Apply(current)
	next.DetectionMode = string(models.ParseDetectionMode(next.DetectionMode))
	if err := validateSettings(next); err != nil {
		return models.AppSettings{}, err
	}

	// Persist the full payload in one transaction so every key reflects the
	// normalized state, as the settings table is the source of truth across
	// restarts.
	if err := s.repo.SetMany(ctx, map[string]string{
		keyCaptureIntervalSeconds:        strconv.Itoa(next.CaptureIntervalSeconds),
		keyReminderMethod:                next.ReminderMethod,
		keyReminderCooldownMinutes:       strconv.Itoa(next.ReminderCooldownMinutes),
		keyConsecutiveIncorrectThreshold: strconv.Itoa(next.ConsecutiveIncorrectThreshold),
		keyScreenTimeEnabled:             strconv.FormatBool(next.ScreenTimeEnabled),
		keyScreenTimeThresholdMinutes:    strconv.Itoa(next.ScreenTimeThresholdMinutes),
		keyRetentionDays:                 strconv.Itoa(next.RetentionDays),
		keyHeadRatioThreshold:            strconv.FormatFloat(next.HeadRatioThreshold, 'f', -1, 64),
		keyHeadForwardThreshold:          strconv.FormatFloat(next.HeadForwardThreshold, 'f', -1, 64),
		keyDetectionMode:                 next.DetectionMode,
		keyUpperBodyMode:                 strconv.FormatBool(next.UpperBodyMode),
		keySmoothingAlpha:                strconv.FormatFloat(next.SmoothingAlpha, 'f', -1, 64),
		keyRequiredCorrectSamples:        strconv.Itoa(next.RequiredCorrectSamples),
		keyRequiredIncorrectSamples:      strconv.Itoa(next.RequiredIncorrectSamples),
	}); err != nil {
		log.Error("failed to persist settings: %v", err)
		return models.AppSettings{}, apperrors.NewInternalError(err)
	}

	log.Info("settings updated: mode=%s, interval=%ds, ratio_threshold=%.4f",
		next.DetectionMode, next.CaptureIntervalSeconds, next.HeadRatioThreshold)
	return next, nil
}

func (s *settingsService) GetSetting(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, apperrors.NewInternalError(err)
	}
	return value, ok, nil
}

func (s *settingsService) SetSetting(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func validateSettings(s models.AppSettings) error {
	switch {
	case s.CaptureIntervalSeconds < 1:
		return apperrors.NewValidationError(keyCaptureIntervalSeconds, "must be at least 1")
	case s.ReminderCooldownMinutes < 1:
		return apperrors.NewValidationError(keyReminderCooldownMinutes, "must be at least 1")
	case s.ConsecutiveIncorrectThreshold < 1:
		return apperrors.NewValidationError(keyConsecutiveIncorrectThreshold, "must be at least 1")
	case s.RetentionDays < 1:
		return apperrors.NewValidationError(keyRetentionDays, "must be at least 1")
	case s.HeadRatioThreshold < 0 || s.HeadRatioThreshold > 1:
		return apperrors.NewValidationError(keyHeadRatioThreshold, "must be in [0, 1]")
	case s.HeadForwardThreshold < 0 || s.HeadForwardThreshold > 1:
		return apperrors.NewValidationError(keyHeadForwardThreshold, "must be in [0, 1]")
	case s.SmoothingAlpha <= 0 || s.SmoothingAlpha > 1:
		return apperrors.NewValidationError(keySmoothingAlpha, "must be in (0, 1]")
	case s.RequiredCorrectSamples < 2:
		return apperrors.NewValidationError(keyRequiredCorrectSamples, "must be at least 2")
	case s.RequiredIncorrectSamples < 1:
		return apperrors.NewValidationError(keyRequiredIncorrectSamples, "must be at least 1")
	}
	return nil
}

func stringSetting(stored map[string]string, key, def string) string {
	if v, ok := stored[key]; ok && v != "" {
		return v
	}
	return def
}

func intSetting(stored map[string]string, key string, def int) int {
	if v, ok := stored[key]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func floatSetting(stored map[string]string, key string, def float64) float64 {
	if v, ok := stored[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func boolSetting(stored map[string]string, key string, def bool) bool {
	if v, ok := stored[key]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
