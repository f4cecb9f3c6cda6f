package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	defaultTemperature = 0.2
)

// contentGenerator is the part of genai.Models the analyzer calls
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider implements provider.FrameAnalyzer with the Gemini API
type Provider struct {
	models contentGenerator
	model  string
}

var _ provider.FrameAnalyzer = (*Provider)(nil)

// NewProvider creates a new Gemini frame analyzer
func NewProvider(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newProvider(client.Models, model), nil
}

func newProvider(models contentGenerator, model string) *Provider {
	if model == "" {
		model = DefaultModel
	}
	return &Provider{models: models, model: model}
}

func (p *Provider) Name() string {
	return p.model
}

// AnalyzeFrame sends the downscaled frame image inline with the stylist
// prompt and asks for a JSON answer
func (p *Provider) AnalyzeFrame(ctx context.Context, image []byte, mime string) (*domain.FrameAnalysis, error) {
	data, mime, err := asset.Downscale(image, provider.MaxVisionImageWidth)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: provider.FramePrompt},
				{InlineData: &genai.Blob{Data: data, MIMEType: mime}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](defaultTemperature),
	}

	result, err := p.models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrVisionUnavailable.WithError(fmt.Errorf("gemini: %w", err))
	}

	return provider.ParseFrameAnalysis(result.Text())
}
