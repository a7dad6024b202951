package models

// AppSettings is the typed view over the persisted key/value settings table.
// Zero thresholds mean "uncalibrated".
type AppSettings struct {
	CaptureIntervalSeconds        int     `json:"capture_interval_seconds"`
	ReminderMethod                string  `json:"reminder_method"`
	ReminderCooldownMinutes       int     `json:"reminder_cooldown_minutes"`
	ConsecutiveIncorrectThreshold int     `json:"consecutive_incorrect_threshold"`
	ScreenTimeEnabled             bool    `json:"screen_time_enabled"`
	ScreenTimeThresholdMinutes    int     `json:"screen_time_threshold_minutes"`
	RetentionDays                 int     `json:"retention_days"`
	HeadRatioThreshold            float64 `json:"head_ratio_threshold"`
	HeadForwardThreshold          float64 `json:"head_forward_threshold"`
	DetectionMode                 string  `json:"detection_mode"`
	UpperBodyMode                 bool    `json:"upper_body_mode"`
	SmoothingAlpha                float64 `json:"smoothing_alpha"`
	RequiredCorrectSamples        int     `json:"required_correct_samples"`
	RequiredIncorrectSamples      int     `json:"required_incorrect_samples"`
}

// DefaultSettings returns the settings used before anything is persisted.
func DefaultSettings() AppSettings {
	return AppSettings{
		CaptureIntervalSeconds:        300,
		ReminderMethod:                "popup",
		ReminderCooldownMinutes:       3,
		ConsecutiveIncorrectThreshold: 1,
		ScreenTimeEnabled:             false,
		ScreenTimeThresholdMinutes:    60,
		RetentionDays:                 7,
		HeadRatioThreshold:            0,
		HeadForwardThreshold:          0,
		DetectionMode:                 string(ModeNormal),
		UpperBodyMode:                 false,
		SmoothingAlpha:                0.3,
		RequiredCorrectSamples:        3,
		RequiredIncorrectSamples:      2,
	}
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	CaptureIntervalSeconds        *int     `json:"capture_interval_seconds,omitempty"`
	ReminderMethod                *string  `json:"reminder_method,omitempty"`
	ReminderCooldownMinutes       *int     `json:"reminder_cooldown_minutes,omitempty"`
	ConsecutiveIncorrectThreshold *int     `json:"consecutive_incorrect_threshold,omitempty"`
	ScreenTimeEnabled             *bool    `json:"screen_time_enabled,omitempty"`
	ScreenTimeThresholdMinutes    *int     `json:"screen_time_threshold_minutes,omitempty"`
	RetentionDays                 *int     `json:"retention_days,omitempty"`
	HeadRatioThreshold            *float64 `json:"head_ratio_threshold,omitempty"`
	HeadForwardThreshold          *float64 `json:"head_forward_threshold,omitempty"`
	DetectionMode                 *string  `json:"detection_mode,omitempty"`
	UpperBodyMode                 *bool    `json:"upper_body_mode,omitempty"`
	SmoothingAlpha                *float64 `json:"smoothing_alpha,omitempty"`
	RequiredCorrectSamples        *int     `json:"required_correct_samples,omitempty"`
	RequiredIncorrectSamples      *int     `json:"required_incorrect_samples,omitempty"`
}

// Apply overlays the patch onto s and returns the result.
func (p SettingsPatch) Apply(s AppSettings) AppSettings {
	if p.CaptureIntervalSeconds != nil {
		s.CaptureIntervalSeconds = *p.CaptureIntervalSeconds
	}
	if p.ReminderMethod != nil {
		s.ReminderMethod = *p.ReminderMethod
	}
	if p.ReminderCooldownMinutes != nil {
		s.ReminderCooldownMinutes = *p.ReminderCooldownMinutes
	}
	if p.ConsecutiveIncorrectThreshold != nil {
		s.ConsecutiveIncorrectThreshold = *p.ConsecutiveIncorrectThreshold
	}
	if p.ScreenTimeEnabled != nil {
		s.ScreenTimeEnabled = *p.ScreenTimeEnabled
	}
	if p.ScreenTimeThresholdMinutes != nil {
		s.ScreenTimeThresholdMinutes = *p.ScreenTimeThresholdMinutes
	}
	if p.RetentionDays != nil {
		s.RetentionDays = *p.RetentionDays
	}
	if p.HeadRatioThreshold != nil {
		s.HeadRatioThreshold = *p.HeadRatioThreshold
	}
	if p.HeadForwardThreshold != nil {
		s.HeadForwardThreshold = *p.HeadForwardThreshold
	}
	if p.DetectionMode != nil {
		s.DetectionMode = *p.DetectionMode
	}
	if p.UpperBodyMode != nil {
		s.UpperBodyMode = *p.UpperBodyMode
	}
	if p.SmoothingAlpha != nil {
		s.SmoothingAlpha = *p.SmoothingAlpha
	}
	if p.RequiredCorrectSamples != nil {
		s.RequiredCorrectSamples = *p.RequiredCorrectSamples
	}
	if p.RequiredIncorrectSamples != nil {
		s.RequiredIncorrectSamples = *p.RequiredIncorrectSamples
	}
	return s
}
