// Package faceshape classifies a face into one of six shape categories from
// face-mesh landmarks by measuring the face at three horizontal bands.
package faceshape

import "math"

// Face-mesh landmark indices. The ordering is fixed by the upstream
// 468-point face mesh model.
const (
	// LeftEyeOuter is the outer corner of the subject's left eye (image left).
	LeftEyeOuter = 33
	// RightEyeOuter is the outer corner of the subject's right eye (image right).
	RightEyeOuter = 263
	// ForeheadTop is the topmost point on the forehead midline.
	ForeheadTop = 10
	// ChinBottom is the lowest point on the chin midline.
	ChinBottom = 152

	// NumLandmarks is the number of points the face mesh emits per face.
	NumLandmarks = 468
)

// Point is a landmark in normalized image coordinates, both axes in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelPoint is a landmark scaled to canvas pixels.
type PixelPoint struct {
	X float64
	Y float64
}

// ToPixels scales a normalized point by the canvas dimensions.
func (p Point) ToPixels(width, height float64) PixelPoint {
	return PixelPoint{X: p.X * width, Y: p.Y * height}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Valid reports whether the landmark set is complete enough to classify:
// at least NumLandmarks points, all with finite coordinates.
func Valid(landmarks []Point) bool {
	if len(landmarks) < NumLandmarks {
		return false
	}
	for _, p := range landmarks {
		if !p.finite() {
			return false
		}
	}
	return true
}

// EyeCorners returns the two outer eye corners in canvas pixels.
// ok is false when the landmark set does not reach the right-eye index.
func EyeCorners(landmarks []Point, width, height float64) (left, right PixelPoint, ok bool) {
	if len(landmarks) <= RightEyeOuter {
		return PixelPoint{}, PixelPoint{}, false
	}
	left = landmarks[LeftEyeOuter].ToPixels(width, height)
	right = landmarks[RightEyeOuter].ToPixels(width, height)
	return left, right, true
}
