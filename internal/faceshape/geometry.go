package faceshape

import "math"

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b PixelPoint) PixelPoint {
	return PixelPoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// LineAngle returns the angle in radians of the line from a to b relative
// to the horizontal axis. Image y grows downward, so a positive angle is a
// clockwise tilt on screen.
func LineAngle(a, b PixelPoint) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b PixelPoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Rotate rotates p by angle radians about center.
func Rotate(p, center PixelPoint, angle float64) PixelPoint {
	sin, cos := math.Sincos(angle)
	x := p.X - center.X
	y := p.Y - center.Y
	return PixelPoint{
		X: center.X + x*cos - y*sin,
		Y: center.Y + x*sin + y*cos,
	}
}

// RotationFrame is the eye-line reference frame: its origin is the eye
// midpoint and its angle is the tilt of the line joining the outer eye corners.
type RotationFrame struct {
	Origin PixelPoint
	Angle  float64
}

// NewRotationFrame builds the frame from the two outer eye corners.
func NewRotationFrame(leftEye, rightEye PixelPoint) RotationFrame {
	return RotationFrame{
		Origin: Midpoint(leftEye, rightEye),
		Angle:  LineAngle(leftEye, rightEye),
	}
}

// Level maps a point into the frame, undoing the head tilt.
func (f RotationFrame) Level(p PixelPoint) PixelPoint {
	return Rotate(p, f.Origin, -f.Angle)
}

// LevelAll maps every point into the frame.
func (f RotationFrame) LevelAll(points []PixelPoint) []PixelPoint {
	out := make([]PixelPoint, len(points))
	for i, p := range points {
		out[i] = f.Level(p)
	}
	return out
}

// verticalExtent returns the min and max y over points. ok is false when
// points is empty.
func verticalExtent(points []PixelPoint) (minY, maxY float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	minY, maxY = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return minY, maxY, true
}
