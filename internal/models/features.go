package models

// Metric is a feature value that may be unavailable for a given frame.
// A defined Metric is never negative.
type Metric struct {
	Value   float64
	Defined bool
}

// DefinedMetric returns a defined Metric, clamping negatives to zero.
func DefinedMetric(v float64) Metric {
	if v < 0 {
		v = 0
	}
	return Metric{Value: v, Defined: true}
}

// Undefined returns an unavailable Metric.
func Undefined() Metric {
	return Metric{}
}

// Ptr returns the value as a pointer, or nil when unavailable. Used for
// JSON payloads where absence means "unavailable".
func (m Metric) Ptr() *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// GeometryFeatures holds the numeric features extracted from one frame.
type GeometryFeatures struct {
	HeadRatio        Metric
	HeadForwardRatio Metric
	TrunkLeanDegrees Metric
	EarSpanRatio     Metric

	// Visibility averages used by the classifier and the extractor cutoffs.
	ShoulderVisibility float64
	HipVisibility      float64

	// UsedWorld reports whether head-forward came from the 3-D path.
	UsedWorld bool
}
