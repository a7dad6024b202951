package posture

import (
	"math"

	"github.com/kael/sitwell/internal/models"
)

// Visibility cutoffs and the zero guard used by the extractor.
const (
	HeadVisibilityCutoff     = 0.35
	ShoulderVisibilityCutoff = 0.35
	HipVisibilityCutoff      = 0.25

	geometryEpsilon = 1e-6
)

// Extract computes the geometric features for one frame. It is a pure
// function of the landmarks, the optional face box, and the frame size
// carried by the frame itself. Features that cannot be derived from the
// available points come back undefined, never as an error.
func Extract(frame models.LandmarkFrame, face *models.FaceBox) models.GeometryFeatures {
	lm := frame.Landmarks

	f := models.GeometryFeatures{
		ShoulderVisibility: meanVisibility(lm.LeftShoulder, lm.RightShoulder),
		HipVisibility:      meanVisibility(lm.LeftHip, lm.RightHip),
	}

	f.HeadRatio = headRatio(frame, face)
	f.HeadForwardRatio, f.UsedWorld = headForwardRatio(frame)
	f.TrunkLeanDegrees = trunkLeanDegrees(lm, f.HipVisibility)
	f.EarSpanRatio = earSpanRatio(lm)
	return f
}

// headRatio is the fraction of the frame area covered by the face box, the
// primary camera-distance proxy.
func headRatio(frame models.LandmarkFrame, face *models.FaceBox) models.Metric {
	if face == nil || frame.Width <= 0 || frame.Height <= 0 {
		return models.Undefined()
	}
	frameArea := float64(frame.Width) * float64(frame.Height)
	return models.DefinedMetric(float64(face.Area()) / frameArea)
}

// headForwardRatio prefers the 3-D world landmarks: the depth offset between
// the shoulder midpoint and the visible head points, normalized by the 3-D
// shoulder width. Without world coordinates it falls back to the horizontal
// 2-D offset normalized by the 2-D shoulder width.
func headForwardRatio(frame models.LandmarkFrame) (models.Metric, bool) {
	if frame.World != nil {
		if m := headForward3D(*frame.World); m.Defined {
			return m, true
		}
	}
	return headForward2D(frame.Landmarks), false
}

func headForward3D(world models.LandmarkSet) models.Metric {
	ls, rs := world.LeftShoulder, world.RightShoulder
	width := dist3(ls, rs)
	if width <= geometryEpsilon {
		return models.Undefined()
	}

	var sum float64
	var n int
	for _, head := range []models.Landmark{world.Nose, world.LeftEar, world.RightEar} {
		if head.Visibility >= HeadVisibilityCutoff {
			sum += head.Z
			n++
		}
	}
	if n == 0 {
		return models.Undefined()
	}

	shoulderMidZ := (ls.Z + rs.Z) / 2
	// Depth decreases toward the camera, so a forward head sits below the
	// shoulder midpoint depth.
	offset := shoulderMidZ - sum/float64(n)
	return models.DefinedMetric(offset / width)
}

func headForward2D(lm models.LandmarkSet) models.Metric {
	ls, rs := lm.LeftShoulder, lm.RightShoulder
	width := math.Abs(ls.X - rs.X)
	if width <= geometryEpsilon {
		return models.Undefined()
	}

	midX := (ls.X + rs.X) / 2
	var sum float64
	var n int
	if lm.LeftEar.Visibility >= HeadVisibilityCutoff {
		sum += math.Abs(lm.LeftEar.X - ls.X)
		n++
	}
	if lm.RightEar.Visibility >= HeadVisibilityCutoff {
		sum += math.Abs(lm.RightEar.X - rs.X)
		n++
	}
	if lm.Nose.Visibility >= HeadVisibilityCutoff {
		sum += math.Abs(lm.Nose.X - midX)
		n++
	}
	if n == 0 {
		return models.Undefined()
	}
	return models.DefinedMetric(sum / float64(n) / width)
}

// trunkLeanDegrees is the angle between the shoulder-midpoint to hip-midpoint
// vector and vertical.
func trunkLeanDegrees(lm models.LandmarkSet, hipVisibility float64) models.Metric {
	if hipVisibility < HipVisibilityCutoff {
		return models.Undefined()
	}

	shoulderMidX := (lm.LeftShoulder.X + lm.RightShoulder.X) / 2
	shoulderMidY := (lm.LeftShoulder.Y + lm.RightShoulder.Y) / 2
	hipMidX := (lm.LeftHip.X + lm.RightHip.X) / 2
	hipMidY := (lm.LeftHip.Y + lm.RightHip.Y) / 2

	dx := hipMidX - shoulderMidX
	dy := hipMidY - shoulderMidY
	norm := math.Hypot(dx, dy)
	if norm <= geometryEpsilon {
		return models.Undefined()
	}

	// Image coordinates grow downward, so vertical is (0, 1).
	cos := dy / norm
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return models.DefinedMetric(math.Acos(cos) * 180 / math.Pi)
}

// earSpanRatio is the horizontal distance between the ears in normalized
// coordinates; a fallback "too close" proxy when no face box is available.
func earSpanRatio(lm models.LandmarkSet) models.Metric {
	if lm.LeftEar.Visibility < HeadVisibilityCutoff || lm.RightEar.Visibility < HeadVisibilityCutoff {
		return models.Undefined()
	}
	return models.DefinedMetric(math.Abs(lm.LeftEar.X - lm.RightEar.X))
}

func meanVisibility(points ...models.Landmark) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Visibility
	}
	return sum / float64(len(points))
}

func dist3(a, b models.Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
