package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
)

const (
	DefaultModel       = "gpt-4o"
	defaultTemperature = 0.2
	defaultMaxTokens   = 500
)

// Config holds the OpenAI frame analyzer settings
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, mostly for tests and proxies.
	BaseURL    string
	MaxRetries int
}

// Provider implements provider.FrameAnalyzer with chat completions
type Provider struct {
	client *openai.Client
	model  string
}

var _ provider.FrameAnalyzer = (*Provider)(nil)

// NewProvider creates a new OpenAI frame analyzer
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &Provider{
		client: &client,
		model:  cfg.Model,
	}, nil
}

func (p *Provider) Name() string {
	return p.model
}

// AnalyzeFrame sends the downscaled frame image with the stylist prompt and
// sanitizes the JSON answer
func (p *Provider) AnalyzeFrame(ctx context.Context, image []byte, mime string) (*domain.FrameAnalysis, error) {
	data, mime, err := asset.Downscale(image, provider.MaxVisionImageWidth)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart(provider.FramePrompt),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL: asset.DataURL(data, mime),
						}),
					},
				},
			},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       p.model,
		Messages:    messages,
		Temperature: openai.Float(defaultTemperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(defaultMaxTokens),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.ErrVisionUnavailable.WithError(fmt.Errorf("openai: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, domain.ErrVisionMalformed.WithError(errors.New("openai: no choices"))
	}

	return provider.ParseFrameAnalysis(resp.Choices[0].Message.Content)
}
