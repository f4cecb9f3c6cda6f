// Package catalog holds the glasses catalog rules: the builtin fallback
// frames and the ordering of frames for a face shape.
package catalog

import "github.com/nidhi-davra/ai-glass-suggestor/internal/domain"

// Builtin returns a fresh copy of the catalog served when the frame store is
// unavailable.
func Builtin() []domain.Frame {
	return []domain.Frame{
		{
			ID:             "classic-black-rect",
			Name:           "Classic Rectangular Black",
			Src:            "/black-glasses.webp",
			Styles:         []string{"rectangle", "wayfarer"},
			RecommendedFor: []string{"round", "oval", "heart"},
		},
		{
			ID:             "thin-gold-round",
			Name:           "Thin Gold Round",
			Src:            "/glasses3.png",
			Styles:         []string{"round"},
			RecommendedFor: []string{"square", "diamond"},
		},
		{
			ID:             "glass2",
			Name:           "Glass 2",
			Src:            "/glass2.png",
			Styles:         []string{"wayfarer", "rectangle"},
			RecommendedFor: []string{"oval", "oblong", "round"},
		},
		{
			ID:             "glass3",
			Name:           "Glass 3",
			Src:            "/glasses3.png",
			Styles:         []string{"round"},
			RecommendedFor: []string{"square", "diamond"},
		},
		{
			ID:             "glass4",
			Name:           "Glass 4",
			Src:            "/glass4.png",
			Styles:         []string{"aviator"},
			RecommendedFor: []string{"heart", "square", "diamond"},
		},
	}
}

// FindBuiltin looks a frame up in the builtin catalog.
func FindBuiltin(id string) (domain.Frame, bool) {
	return Find(Builtin(), id)
}
