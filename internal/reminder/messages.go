package reminder

import (
	"strings"

	"github.com/kael/sitwell/internal/models"
)

var reasonMessages = map[models.Reason]string{
	models.ReasonHeadForward:     "Head tilted forward. Lift your chin and keep your ears in line with your shoulders.",
	models.ReasonHunchback:       "Slouching detected. Sit upright with your back against the chair.",
	models.ReasonHeadTooClose:    "You are sitting too close to the screen. Move back and straighten up.",
	models.ReasonDetectionFailed: "Posture could not be detected. Make sure you are visible to the camera.",
	models.ReasonScreenTime:      "You have been at the screen for a long stretch. Stand up and move for a minute or two.",
}

const defaultMessage = "Keep a healthy sitting posture."

// BuildMessage concatenates one line per active reason. Unrecognized reasons
// fall back to their raw identifier so new reasons degrade visibly instead
// of silently.
func BuildMessage(reasons []models.Reason) string {
	if len(reasons) == 0 {
		return defaultMessage
	}
	lines := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		if msg, ok := reasonMessages[reason]; ok {
			lines = append(lines, msg)
		} else {
			lines = append(lines, string(reason))
		}
	}
	return strings.Join(lines, "\n")
}
