package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape/facetest"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
)

// Proportions of the synthetic face relative to its cheekbone width. They
// classify as oval.
const (
	foreheadRatio = 0.9
	jawRatio      = 0.85
	lengthRatio   = 1.45
)

var mockStyles = []string{"rectangle", "round", "wayfarer", "aviator", "cat-eye", "browline"}

// Provider implements the detector, gate and analyzer interfaces for tests
// and local development without external services
type Provider struct{}

// New returns a mock provider
func New() *Provider {
	return &Provider{}
}

// Detect returns a synthetic upright face centered in the image
func (p *Provider) Detect(ctx context.Context, image []byte) ([]faceshape.Point, error) {
	_, w, h, err := asset.DecodeConfig(image)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	cheek := math.Min(0.4*float64(w), 0.5*float64(h)/lengthRatio)
	face := facetest.Frontal(w, h, foreheadRatio*cheek, cheek, jawRatio*cheek, lengthRatio*cheek)
	return face.Points(w, h), nil
}

// CountFaces always reports one face for a decodable image
func (p *Provider) CountFaces(ctx context.Context, image []byte) (int, error) {
	if _, _, _, err := asset.DecodeConfig(image); err != nil {
		return 0, domain.ErrInvalidImage.WithError(err)
	}
	return 1, nil
}

// AnalyzeFrame derives a deterministic analysis from the image hash
func (p *Provider) AnalyzeFrame(ctx context.Context, image []byte, mime string) (*domain.FrameAnalysis, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	hash := sha256.Sum256(image)

	analysis := &domain.FrameAnalysis{
		RecommendedFor: []string{},
		Styles:         []string{mockStyles[int(hash[2])%len(mockStyles)]},
		Reasoning:      "mock analysis",
	}
	for _, b := range hash[:2] {
		shape := string(faceshape.Shapes[int(b)%len(faceshape.Shapes)])
		if len(analysis.RecommendedFor) == 1 && analysis.RecommendedFor[0] == shape {
			continue
		}
		analysis.RecommendedFor = append(analysis.RecommendedFor, shape)
	}

	return analysis, nil
}

var (
	_ provider.LandmarkDetector = (*Provider)(nil)
	_ provider.FaceGate         = (*Provider)(nil)
	_ provider.FrameAnalyzer    = (*Provider)(nil)
)
