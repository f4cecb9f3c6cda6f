package domain

import (
	"strings"
	"time"
)

// Frame is a pair of glasses in the catalog. Src points at a transparent
// overlay image: a path under the asset directory, an http(s) URL or a data
// URL.
type Frame struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Src            string     `json:"src"`
	Styles         []string   `json:"styles"`
	RecommendedFor []string   `json:"recommendedFor"`
	Reasoning      string     `json:"reasoning,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// RecommendedForShape reports whether shape is listed in RecommendedFor.
func (f Frame) RecommendedForShape(shape string) bool {
	for _, s := range f.RecommendedFor {
		if s == shape {
			return true
		}
	}
	return false
}

// FrameAnalysis is what the vision provider infers from a frame image.
type FrameAnalysis struct {
	RecommendedFor []string `json:"recommendedFor"`
	Styles         []string `json:"styles"`
	Reasoning      string   `json:"reasoning"`
}

// Merge applies non-empty analysis fields to f. Empty fields leave the
// existing values in place.
func (f Frame) Merge(a *FrameAnalysis) Frame {
	if a == nil {
		return f
	}
	if len(a.RecommendedFor) > 0 {
		f.RecommendedFor = append([]string(nil), a.RecommendedFor...)
	}
	if len(a.Styles) > 0 {
		f.Styles = append([]string(nil), a.Styles...)
	}
	if a.Reasoning != "" {
		f.Reasoning = a.Reasoning
	}
	return f
}

// NormalizeFrames trims identifying fields, drops frames missing any of
// id, name or src, and replaces nil slices with empty ones.
func NormalizeFrames(frames []Frame) []Frame {
	out := make([]Frame, 0, len(frames))
	for _, f := range frames {
		f.ID = strings.TrimSpace(f.ID)
		f.Name = strings.TrimSpace(f.Name)
		f.Src = strings.TrimSpace(f.Src)
		if f.ID == "" || f.Name == "" || f.Src == "" {
			continue
		}
		if f.Styles == nil {
			f.Styles = []string{}
		}
		if f.RecommendedFor == nil {
			f.RecommendedFor = []string{}
		}
		out = append(out, f)
	}
	return out
}
