package rekognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
)

const (
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Provider implements provider.FaceGate using AWS Rekognition DetectFaces
type Provider struct {
	client *Client
}

// Ensure Provider implements provider.FaceGate interface at compile time
var _ provider.FaceGate = (*Provider)(nil)

// NewProvider creates a new Rekognition face gate
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return &Provider{client: client}, nil
}

// NewProviderWithClient creates a gate over an existing client
func NewProviderWithClient(client *Client) *Provider {
	return &Provider{client: client}
}

func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// CountFaces returns how many faces Rekognition finds with at least
// MinConfidence. No faces is a zero count, not an error.
func (p *Provider) CountFaces(ctx context.Context, image []byte) (int, error) {
	if err := validateImage(image); err != nil {
		return 0, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := p.client.rekognition.DetectFaces(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("detect faces: %w", mapAPIError(err))
	}

	count := 0
	for _, detail := range output.FaceDetails {
		if detail.Confidence != nil && *detail.Confidence < p.client.config.MinConfidence {
			continue
		}
		count++
	}

	return count, nil
}
