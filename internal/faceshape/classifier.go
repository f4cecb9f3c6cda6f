package faceshape

import (
	"encoding/json"
	"math"
)

// Metrics are the measurements a classification was based on. Widths and
// lengths are in canvas pixels.
type Metrics struct {
	FaceLength     float64 `json:"faceLength"`
	OverallWidth   float64 `json:"overallWidth"`
	ForeheadWidth  float64 `json:"foreheadWidth"`
	CheekboneWidth float64 `json:"cheekboneWidth"`
	JawWidth       float64 `json:"jawWidth"`
	Ratios
}

// Result is the outcome of Classify. Metrics is nil and Scores is empty
// when the landmark set could not be measured.
type Result struct {
	Shape   Shape    `json:"shape"`
	Metrics *Metrics `json:"metrics"`
	Scores  Scores   `json:"scores"`
}

// MarshalJSON encodes missing metrics and scores as empty objects.
func (r Result) MarshalJSON() ([]byte, error) {
	var metrics any = struct{}{}
	if r.Metrics != nil {
		metrics = r.Metrics
	}
	scores := r.Scores
	if scores == nil {
		scores = Scores{}
	}
	return json.Marshal(struct {
		Shape   Shape  `json:"shape"`
		Metrics any    `json:"metrics"`
		Scores  Scores `json:"scores"`
	}{Shape: r.Shape, Metrics: metrics, Scores: scores})
}

func unknownResult() Result {
	return Result{Shape: Unknown, Scores: Scores{}}
}

// Classify infers the face shape from a landmark set measured against a
// canvas of the given pixel size. It never fails: incomplete landmark sets
// or a degenerate canvas yield an Unknown result.
func Classify(landmarks []Point, canvasWidth, canvasHeight int) Result {
	if !Valid(landmarks) || canvasWidth <= 0 || canvasHeight <= 0 {
		return unknownResult()
	}
	w, h := float64(canvasWidth), float64(canvasHeight)

	pts := make([]PixelPoint, len(landmarks))
	for i, p := range landmarks {
		pts[i] = p.ToPixels(w, h)
	}

	frame := NewRotationFrame(pts[LeftEyeOuter], pts[RightEyeOuter])
	leveled := frame.LevelAll(pts)

	forehead := leveled[ForeheadTop]
	chin := leveled[ChinBottom]
	topY := math.Min(forehead.Y, chin.Y)
	bottomY := math.Max(forehead.Y, chin.Y)
	if !(bottomY > topY) {
		topY, bottomY, _ = verticalExtent(leveled)
	}

	faceLength := math.Max(1, bottomY-topY)

	m := Metrics{
		FaceLength:     faceLength,
		OverallWidth:   overallWidth(leveled, topY, faceLength),
		ForeheadWidth:  BandWidth(leveled, ForeheadBand, topY, faceLength),
		CheekboneWidth: BandWidth(leveled, CheekboneBand, topY, faceLength),
		JawWidth:       BandWidth(leveled, JawBand, topY, faceLength),
	}

	cheek := math.Max(1, m.CheekboneWidth)
	m.Ratios = Ratios{
		LengthToCheek:   faceLength / cheek,
		ForeheadToCheek: m.ForeheadWidth / cheek,
		JawToCheek:      m.JawWidth / cheek,
		WidthToLength:   m.OverallWidth / faceLength,
	}

	scores := Score(m.Ratios)
	return Result{
		Shape:   scores.Best(),
		Metrics: &m,
		Scores:  scores,
	}
}
