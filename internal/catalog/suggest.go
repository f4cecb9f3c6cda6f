package catalog

import (
	"strings"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

// Suggest orders frames for a face shape: frames recommended for the shape
// first, then the rest, each group keeping catalog order. Unknown or empty
// shapes return the catalog order unchanged.
func Suggest(shape faceshape.Shape, frames []domain.Frame) []domain.Frame {
	out := make([]domain.Frame, 0, len(frames))
	if !known(shape) {
		return append(out, frames...)
	}

	var rest []domain.Frame
	for _, f := range frames {
		if f.RecommendedForShape(string(shape)) {
			out = append(out, f)
		} else {
			rest = append(rest, f)
		}
	}
	return append(out, rest...)
}

// OnlyRecommended keeps just the frames recommended for shape. Unknown or
// empty shapes yield nothing.
func OnlyRecommended(shape faceshape.Shape, frames []domain.Frame) []domain.Frame {
	out := []domain.Frame{}
	if !known(shape) {
		return out
	}
	for _, f := range frames {
		if f.RecommendedForShape(string(shape)) {
			out = append(out, f)
		}
	}
	return out
}

// EffectiveShape returns override when it names a known shape, otherwise
// the detected shape.
func EffectiveShape(detected faceshape.Shape, override string) faceshape.Shape {
	if shape, ok := faceshape.ParseShape(strings.ToLower(strings.TrimSpace(override))); ok {
		return shape
	}
	return detected
}

// Find returns the frame with the given id.
func Find(frames []domain.Frame, id string) (domain.Frame, bool) {
	for _, f := range frames {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Frame{}, false
}

func known(shape faceshape.Shape) bool {
	_, ok := faceshape.ParseShape(string(shape))
	return ok
}
