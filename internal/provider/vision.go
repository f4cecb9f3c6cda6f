package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

// MaxVisionImageWidth is the widest image sent to a vision model.
const MaxVisionImageWidth = 700

// FramePrompt asks a vision model for a strict JSON frame analysis.
const FramePrompt = "You are a product stylist. Given a transparent PNG of eyeglass frames, infer suitable face shapes and common style tags.\n" +
	"Return a STRICT JSON object with keys: recommendedFor (array of face shapes from [round, square, oval, oblong, heart, diamond]), " +
	"styles (array of strings), and reasoning (short string). No extra text."

type rawAnalysis struct {
	RecommendedFor any `json:"recommendedFor"`
	Styles         any `json:"styles"`
	Reasoning      any `json:"reasoning"`
}

// ParseFrameAnalysis decodes a model answer and sanitizes it: shapes are
// lower-cased, restricted to the known set and de-duplicated; styles are
// stringified; a non-string reasoning becomes empty.
func ParseFrameAnalysis(content string) (*domain.FrameAnalysis, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrVisionMalformed.WithError(fmt.Errorf("empty content"))
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return nil, domain.ErrVisionMalformed.WithError(err)
	}

	analysis := &domain.FrameAnalysis{
		RecommendedFor: []string{},
		Styles:         []string{},
	}

	seen := make(map[faceshape.Shape]bool)
	for _, v := range asList(raw.RecommendedFor) {
		s, ok := v.(string)
		if !ok {
			continue
		}
		shape, ok := faceshape.ParseShape(strings.ToLower(strings.TrimSpace(s)))
		if !ok || seen[shape] {
			continue
		}
		seen[shape] = true
		analysis.RecommendedFor = append(analysis.RecommendedFor, string(shape))
	}

	for _, v := range asList(raw.Styles) {
		if v == nil {
			continue
		}
		analysis.Styles = append(analysis.Styles, fmt.Sprint(v))
	}

	if s, ok := raw.Reasoning.(string); ok {
		analysis.Reasoning = s
	}

	return analysis, nil
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

// stripCodeFence removes a ```json fence some models wrap answers in.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
