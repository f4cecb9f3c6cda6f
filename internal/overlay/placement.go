// Package overlay positions a glasses image over a face photo using the
// outer eye-corner landmarks, and composites the two.
package overlay

import (
	"math"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

const (
	// EyeDistanceScale maps the outer-corner eye distance to frame width.
	EyeDistanceScale = 2.0
	// MaxCanvasFraction caps the frame width relative to the canvas width.
	MaxCanvasFraction = 0.55
	// FallbackAspect is the width:height ratio used while the overlay's
	// natural size is unknown.
	FallbackAspect = 3.0
)

// Placement fully determines how the overlay is drawn: centered on
// (CenterX, CenterY), rotated by Rotation radians, scaled to Width x Height.
type Placement struct {
	CenterX     float64 `json:"centerX"`
	CenterY     float64 `json:"centerY"`
	Rotation    float64 `json:"rotation"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	EyeDistance float64 `json:"eyeDistance"`
}

// Aspect returns the overlay width:height ratio, falling back to
// FallbackAspect when either natural dimension is missing.
func Aspect(naturalWidth, naturalHeight int) float64 {
	if naturalWidth > 0 && naturalHeight > 0 {
		return float64(naturalWidth) / float64(naturalHeight)
	}
	return FallbackAspect
}

// FrameWidth converts an eye distance to a frame width, capped at
// MaxCanvasFraction of the canvas width.
func FrameWidth(eyeDistance float64, canvasWidth int) float64 {
	return math.Min(eyeDistance*EyeDistanceScale, float64(canvasWidth)*MaxCanvasFraction)
}

// Place computes where the overlay goes for the given landmarks. ok is false
// when the landmarks do not include both eye corners, in which case only the
// photo should be drawn.
func Place(landmarks []faceshape.Point, canvasWidth, canvasHeight, naturalWidth, naturalHeight int) (Placement, bool) {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return Placement{}, false
	}
	left, right, ok := faceshape.EyeCorners(landmarks, float64(canvasWidth), float64(canvasHeight))
	if !ok {
		return Placement{}, false
	}
	return PlaceBetween(left, right, canvasWidth, naturalWidth, naturalHeight), true
}

// PlaceBetween computes the placement from eye corners already in canvas
// pixels.
func PlaceBetween(left, right faceshape.PixelPoint, canvasWidth, naturalWidth, naturalHeight int) Placement {
	eyeDistance := faceshape.Distance(left, right)
	width := FrameWidth(eyeDistance, canvasWidth)
	center := faceshape.Midpoint(left, right)

	return Placement{
		CenterX:     center.X,
		CenterY:     center.Y,
		Rotation:    faceshape.LineAngle(left, right),
		Width:       width,
		Height:      width / Aspect(naturalWidth, naturalHeight),
		EyeDistance: eyeDistance,
	}
}
