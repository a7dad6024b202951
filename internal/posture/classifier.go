package posture

import "github.com/kael/sitwell/internal/models"

// upperBodyHeadForwardCompensation raises the head-forward threshold when
// only the upper body is framed, where foreshortening inflates the ratio.
const upperBodyHeadForwardCompensation = 1.15

// Classify maps smoothed features and the operative thresholds to a status
// and reason set. Deterministic and side-effect free; the detection_failed
// reason is attached by the caller when no landmarks were obtained at all.
func Classify(f models.GeometryFeatures, t models.ThresholdSet, upperBody bool) (models.Status, []models.Reason) {
	if f.ShoulderVisibility < ShoulderVisibilityCutoff {
		return models.StatusUnknown, nil
	}

	var reasons []models.Reason

	headForwardThreshold := t.HeadForwardThreshold
	if upperBody {
		headForwardThreshold *= upperBodyHeadForwardCompensation
	}
	if f.HeadForwardRatio.Defined && f.HeadForwardRatio.Value >= headForwardThreshold {
		reasons = append(reasons, models.ReasonHeadForward)
	}

	// The hunchback check needs hips; in upper-body mode it is skipped
	// entirely rather than fired on garbage hip estimates.
	if !upperBody && f.TrunkLeanDegrees.Defined && f.TrunkLeanDegrees.Value >= t.HunchbackThresholdDegrees {
		reasons = append(reasons, models.ReasonHunchback)
	}

	if f.HeadRatio.Defined {
		// The face-size check needs a calibrated baseline; a non-positive
		// ratio threshold means the check is unavailable.
		if t.RatioThreshold > 0 && f.HeadRatio.Value >= t.RatioThreshold {
			reasons = append(reasons, models.ReasonHeadTooClose)
		}
	} else if f.EarSpanRatio.Defined && f.EarSpanRatio.Value >= t.EarSpanTooCloseThreshold {
		reasons = append(reasons, models.ReasonHeadTooClose)
	}

	if len(reasons) > 0 {
		return models.StatusIncorrect, reasons
	}

	// Correct needs at least one confirming signal; unknown is kept rare so
	// a missing lower body alone does not flicker the verdict.
	poseSignal := f.HeadForwardRatio.Defined || (!upperBody && f.TrunkLeanDegrees.Defined)
	distanceSignal := f.HeadRatio.Defined || f.EarSpanRatio.Defined
	if poseSignal || distanceSignal {
		return models.StatusCorrect, nil
	}
	return models.StatusUnknown, nil
}
