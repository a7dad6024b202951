package posture

import "github.com/kael/sitwell/internal/models"

// DefaultSmoothingAlpha is used when the configured alpha is out of range.
const DefaultSmoothingAlpha = 0.3

// ewma is a single-metric exponential moving average. The first observation
// passes through unchanged.
type ewma struct {
	alpha  float64
	prev   float64
	seeded bool
}

func (e *ewma) apply(v float64) float64 {
	if !e.seeded {
		e.prev = v
		e.seeded = true
		return v
	}
	e.prev = e.alpha*v + (1-e.alpha)*e.prev
	return e.prev
}

func (e *ewma) reset() {
	e.prev = 0
	e.seeded = false
}

// Smoother applies EMA filtering to the two time-noisy features:
// head_forward_ratio and trunk_lean_degrees. One previous value per metric
// persists for the lifetime of the owning detector instance.
type Smoother struct {
	headForward ewma
	trunkLean   ewma
}

// NewSmoother creates a Smoother. Alphas outside (0,1] fall back to the
// default.
func NewSmoother(alpha float64) *Smoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}
	return &Smoother{
		headForward: ewma{alpha: alpha},
		trunkLean:   ewma{alpha: alpha},
	}
}

// Smooth returns a copy of f with the smoothed metrics substituted.
// Undefined metrics pass through untouched and leave the filter state alone,
// so one dropped frame does not restart convergence.
func (s *Smoother) Smooth(f models.GeometryFeatures) models.GeometryFeatures {
	if f.HeadForwardRatio.Defined {
		f.HeadForwardRatio = models.DefinedMetric(s.headForward.apply(f.HeadForwardRatio.Value))
	}
	if f.TrunkLeanDegrees.Defined {
		f.TrunkLeanDegrees = models.DefinedMetric(s.trunkLean.apply(f.TrunkLeanDegrees.Value))
	}
	return f
}

// Reset clears both filters. Called when the detector is reconfigured.
func (s *Smoother) Reset() {
	s.headForward.reset()
	s.trunkLean.reset()
}
