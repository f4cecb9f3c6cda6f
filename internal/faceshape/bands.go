package faceshape

import "math"

// minBandSamples is the number of points a band needs before its width is
// trusted. Sparser bands report a width of zero.
const minBandSamples = 10

// Band is a horizontal slice of the leveled face, expressed as fractions of
// the face length measured down from the top anchor.
type Band struct {
	Name  string
	Start float64
	End   float64
}

// Bands used for measurement.
var (
	ForeheadBand  = Band{Name: "forehead", Start: 0.05, End: 0.20}
	CheekboneBand = Band{Name: "cheekbone", Start: 0.35, End: 0.60}
	JawBand       = Band{Name: "jaw", Start: 0.75, End: 0.98}
)

// Span returns the absolute pixel y-range of the band for a face whose top
// anchor sits at topY.
func (b Band) Span(topY, faceLength float64) (startY, endY float64) {
	return topY + b.Start*faceLength, topY + b.End*faceLength
}

// bandExtent collects the x-extent of points whose y lies inside the band,
// bounds inclusive.
func bandExtent(points []PixelPoint, b Band, topY, faceLength float64) (minX, maxX float64, count int) {
	startY, endY := b.Span(topY, faceLength)
	minX, maxX = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if p.Y < startY || p.Y > endY {
			continue
		}
		count++
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return minX, maxX, count
}

// BandWidth measures the horizontal width of the face inside the band.
// It returns 0 when fewer than minBandSamples points fall in the band.
func BandWidth(points []PixelPoint, b Band, topY, faceLength float64) float64 {
	minX, maxX, count := bandExtent(points, b, topY, faceLength)
	if count < minBandSamples {
		return 0
	}
	return math.Max(0, maxX-minX)
}

// overallWidth is the x-extent across the midface band with no sample floor,
// floored at one pixel. The midface keeps hair and ears from inflating it.
func overallWidth(points []PixelPoint, topY, faceLength float64) float64 {
	minX, maxX, count := bandExtent(points, CheekboneBand, topY, faceLength)
	if count == 0 {
		return 1
	}
	return math.Max(1, maxX-minX)
}
