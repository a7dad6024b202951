package models

// Landmark is a single body point in normalized image coordinates
// (x, y in [0,1], origin top-left) with a visibility score in [0,1].
// Z is a relative depth estimate; smaller values are closer to the camera.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// LandmarkSet names the body points the posture pipeline consumes.
type LandmarkSet struct {
	Nose          Landmark `json:"nose"`
	LeftEar       Landmark `json:"left_ear"`
	RightEar      Landmark `json:"right_ear"`
	LeftShoulder  Landmark `json:"left_shoulder"`
	RightShoulder Landmark `json:"right_shoulder"`
	LeftHip       Landmark `json:"left_hip"`
	RightHip      Landmark `json:"right_hip"`
}

// LandmarkFrame is one estimator result: the frame dimensions, image-space
// landmarks, and optionally metric 3-D "world" landmarks when the backend
// provides them. One frame per processed capture; never retained.
type LandmarkFrame struct {
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Landmarks LandmarkSet  `json:"landmarks"`
	World     *LandmarkSet `json:"world,omitempty"`
}

// FaceBox is an axis-aligned face bounding box in pixels.
type FaceBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Area returns the box area in pixels, treating negative extents as empty.
func (b FaceBox) Area() int {
	w, h := b.W, b.H
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w * h
}
