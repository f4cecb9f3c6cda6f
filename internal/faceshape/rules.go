package faceshape

import "math"

// Shape is a face shape label.
type Shape string

const (
	Round   Shape = "round"
	Square  Shape = "square"
	Oval    Shape = "oval"
	Oblong  Shape = "oblong"
	Heart   Shape = "heart"
	Diamond Shape = "diamond"
	Unknown Shape = "unknown"
)

// Shapes lists the known labels in tie-break precedence order: when two
// shapes score the same, the one listed first wins.
var Shapes = []Shape{Round, Square, Oval, Oblong, Heart, Diamond}

// ParseShape returns the known shape named by s. Matching is exact;
// callers normalize case beforehand.
func ParseShape(s string) (Shape, bool) {
	for _, shape := range Shapes {
		if string(shape) == s {
			return shape, true
		}
	}
	return Unknown, false
}

// Ratios are the scale-free measurements the rules read.
type Ratios struct {
	LengthToCheek   float64 `json:"lengthToCheek"`
	ForeheadToCheek float64 `json:"foreheadToCheek"`
	JawToCheek      float64 `json:"jawToCheek"`
	WidthToLength   float64 `json:"widthToLength"`
}

// Rule adds Weight to Shape whenever Match holds.
type Rule struct {
	Shape  Shape
	Name   string
	Weight float64
	Match  func(r Ratios) bool
}

func between(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func near1(v, tol float64) bool {
	return math.Abs(v-1) < tol
}

// Rules is the scoring table. Weights and thresholds are tuned heuristics.
var Rules = []Rule{
	{Shape: Round, Name: "length close to cheek width", Weight: 0.8, Match: func(r Ratios) bool {
		return between(r.LengthToCheek, 0.90, 1.15)
	}},
	{Shape: Round, Name: "even band widths", Weight: 0.7, Match: func(r Ratios) bool {
		return near1(r.ForeheadToCheek, 0.08) && near1(r.JawToCheek, 0.08)
	}},
	{Shape: Square, Name: "length slightly over cheek width", Weight: 0.9, Match: func(r Ratios) bool {
		return between(r.LengthToCheek, 1.05, 1.35)
	}},
	{Shape: Square, Name: "tight band widths", Weight: 0.6, Match: func(r Ratios) bool {
		return near1(r.ForeheadToCheek, 0.07) && near1(r.JawToCheek, 0.07)
	}},
	{Shape: Oval, Name: "length clearly over cheek width", Weight: 1.0, Match: func(r Ratios) bool {
		return between(r.LengthToCheek, 1.30, 1.65)
	}},
	{Shape: Oval, Name: "cheekbones widest", Weight: 0.6, Match: func(r Ratios) bool {
		return r.ForeheadToCheek < 0.98 && r.JawToCheek < 0.98
	}},
	{Shape: Oblong, Name: "long face", Weight: 1.5, Match: func(r Ratios) bool {
		return r.LengthToCheek > 1.65 || r.WidthToLength < 0.6
	}},
	{Shape: Heart, Name: "wide forehead, narrow jaw", Weight: 1.2, Match: func(r Ratios) bool {
		return r.ForeheadToCheek >= 1.05 && r.JawToCheek <= 0.95
	}},
	{Shape: Diamond, Name: "narrow forehead and jaw", Weight: 1.1, Match: func(r Ratios) bool {
		return r.ForeheadToCheek <= 0.95 && r.JawToCheek <= 0.95
	}},
}

// Scores maps each shape to its accumulated rule weight.
type Scores map[Shape]float64

// Score evaluates every rule once against r. All six shapes are present in
// the result, zero when nothing fired for them.
func Score(r Ratios) Scores {
	scores := make(Scores, len(Shapes))
	for _, shape := range Shapes {
		scores[shape] = 0
	}
	for _, rule := range Rules {
		if rule.Match(r) {
			scores[rule.Shape] += rule.Weight
		}
	}
	return scores
}

// Best returns the highest scoring shape, or Unknown when every score is
// zero. Ties go to the shape that comes first in Shapes.
func (s Scores) Best() Shape {
	best, top := Unknown, 0.0
	for _, shape := range Shapes {
		if v := s[shape]; v > top {
			best, top = shape, v
		}
	}
	return best
}
