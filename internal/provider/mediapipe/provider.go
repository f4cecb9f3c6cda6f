package mediapipe

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

// gateMaxFaces is enough to tell one face from several.
const gateMaxFaces = 2

// Provider implements provider.LandmarkDetector and provider.FaceGate
// against the face-mesh sidecar
type Provider struct {
	client *Client
}

// NewProvider creates a new sidecar-backed provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// Detect returns the landmarks of the first face in the image
func (p *Provider) Detect(ctx context.Context, image []byte) ([]faceshape.Point, error) {
	resp, err := p.client.Landmarks(ctx, base64.StdEncoding.EncodeToString(image), 1)
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}

	if len(resp.Faces) == 0 {
		return nil, domain.ErrNoFaceDetected
	}

	// A partial mesh is passed through; the classifier reports it as unknown.
	mesh := resp.Faces[0].Landmarks
	points := make([]faceshape.Point, len(mesh))
	for i, lm := range mesh {
		points[i] = faceshape.Point{X: lm.X, Y: lm.Y}
	}
	return points, nil
}

// CountFaces returns 0, 1 or 2 (meaning two or more)
func (p *Provider) CountFaces(ctx context.Context, image []byte) (int, error) {
	resp, err := p.client.Landmarks(ctx, base64.StdEncoding.EncodeToString(image), gateMaxFaces)
	if err != nil {
		return 0, fmt.Errorf("count faces: %w", err)
	}
	return len(resp.Faces), nil
}

// Ping checks that the sidecar is reachable
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Health(ctx)
}
