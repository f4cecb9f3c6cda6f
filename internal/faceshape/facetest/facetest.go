// Package facetest builds synthetic face-mesh landmark sets with known
// geometry for tests and for the development landmark provider.
package facetest

import (
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

const defaultSamples = 12

// Face describes an upright frontal face in canvas pixels.
type Face struct {
	CenterX float64
	Top     float64
	Length  float64

	ForeheadWidth  float64
	CheekboneWidth float64
	JawWidth       float64

	// Samples is the number of points placed in each band, 12 when zero.
	Samples int
	// JawSamples overrides Samples for the jaw band when positive.
	JawSamples int
}

// Frontal returns a face centered on a canvas of the given size with the
// given band widths and length.
func Frontal(canvasWidth, canvasHeight int, forehead, cheek, jaw, length float64) Face {
	return Face{
		CenterX:        float64(canvasWidth) / 2,
		Top:            (float64(canvasHeight) - length) / 2,
		Length:         length,
		ForeheadWidth:  forehead,
		CheekboneWidth: cheek,
		JawWidth:       jaw,
	}
}

// PixelPoints lays out all landmarks in canvas pixels.
func (f Face) PixelPoints() []faceshape.PixelPoint {
	samples := f.Samples
	if samples <= 0 {
		samples = defaultSamples
	}
	jawSamples := samples
	if f.JawSamples > 0 {
		jawSamples = f.JawSamples
	}

	pts := make([]faceshape.PixelPoint, faceshape.NumLandmarks)
	reserved := map[int]faceshape.PixelPoint{
		faceshape.ForeheadTop:   {X: f.CenterX, Y: f.Top},
		faceshape.ChinBottom:    {X: f.CenterX, Y: f.Top + f.Length},
		faceshape.LeftEyeOuter:  {X: f.CenterX - f.CheekboneWidth/4, Y: f.at(0.45)},
		faceshape.RightEyeOuter: {X: f.CenterX + f.CheekboneWidth/4, Y: f.at(0.45)},
	}

	var layout []faceshape.PixelPoint
	layout = append(layout, f.row(faceshape.ForeheadBand, f.ForeheadWidth, samples)...)
	layout = append(layout, f.row(faceshape.CheekboneBand, f.CheekboneWidth, samples)...)
	layout = append(layout, f.row(faceshape.JawBand, f.JawWidth, jawSamples)...)

	// Leftover points sit on the midline between the forehead and
	// cheekbone bands where they affect no measurement.
	filler := faceshape.PixelPoint{X: f.CenterX, Y: f.at(0.28)}

	next := 0
	for i := range pts {
		if p, ok := reserved[i]; ok {
			pts[i] = p
			continue
		}
		if next < len(layout) {
			pts[i] = layout[next]
			next++
			continue
		}
		pts[i] = filler
	}
	return pts
}

// Points returns the landmarks normalized to the canvas.
func (f Face) Points(canvasWidth, canvasHeight int) []faceshape.Point {
	return Normalize(f.PixelPoints(), canvasWidth, canvasHeight)
}

func (f Face) at(frac float64) float64 {
	return f.Top + frac*f.Length
}

func (f Face) row(b faceshape.Band, width float64, n int) []faceshape.PixelPoint {
	y := f.at((b.Start + b.End) / 2)
	row := make([]faceshape.PixelPoint, n)
	for i := range row {
		x := f.CenterX - width/2
		if n > 1 {
			x += width * float64(i) / float64(n-1)
		}
		row[i] = faceshape.PixelPoint{X: x, Y: y}
	}
	return row
}

// Normalize converts pixel points back to normalized landmarks.
func Normalize(pts []faceshape.PixelPoint, canvasWidth, canvasHeight int) []faceshape.Point {
	w, h := float64(canvasWidth), float64(canvasHeight)
	out := make([]faceshape.Point, len(pts))
	for i, p := range pts {
		out[i] = faceshape.Point{X: p.X / w, Y: p.Y / h}
	}
	return out
}

// Tilt rotates every landmark by angle radians about the eye midpoint,
// simulating a tilted head.
func Tilt(landmarks []faceshape.Point, canvasWidth, canvasHeight int, angle float64) []faceshape.Point {
	w, h := float64(canvasWidth), float64(canvasHeight)
	left := landmarks[faceshape.LeftEyeOuter].ToPixels(w, h)
	right := landmarks[faceshape.RightEyeOuter].ToPixels(w, h)
	center := faceshape.Midpoint(left, right)

	pts := make([]faceshape.PixelPoint, len(landmarks))
	for i, p := range landmarks {
		pts[i] = faceshape.Rotate(p.ToPixels(w, h), center, angle)
	}
	return Normalize(pts, canvasWidth, canvasHeight)
}
