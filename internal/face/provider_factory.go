package face

import (
	"context"
	"fmt"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/config"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider/gemini"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider/mediapipe"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider/mock"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider/openai"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider/rekognition"
)

// ProviderType names a provider implementation selectable from config
type ProviderType string

const (
	// ProviderTypeMediaPipe is the face-mesh sidecar
	ProviderTypeMediaPipe ProviderType = "mediapipe"
	// ProviderTypeRekognition is AWS Rekognition, used only as a face gate
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeOpenAI is OpenAI chat completions with image input
	ProviderTypeOpenAI ProviderType = "openai"
	// ProviderTypeGemini is the Google Gemini API
	ProviderTypeGemini ProviderType = "gemini"
	// ProviderTypeMock is the in-process fake (local, for dev/test)
	ProviderTypeMock ProviderType = "mock"
	// ProviderTypeNone disables an optional provider
	ProviderTypeNone ProviderType = "none"
)

// Providers bundles the external collaborators of the try-on pipeline.
// Gate is nil when FACE_GATE is none.
type Providers struct {
	Landmarks provider.LandmarkDetector
	Gate      provider.FaceGate
	Vision    provider.FrameAnalyzer
}

// NewProviders creates every provider the configuration selects
//
// Environment variables:
//   - LANDMARK_PROVIDER: "mediapipe" or "mock" (default: "mock")
//   - LANDMARK_URL: face-mesh sidecar URL
//   - FACE_GATE: "none", "mediapipe" or "rekognition" (default: "none")
//   - AWS_REGION: AWS region for Rekognition, credentials via the SDK chain
//   - VISION_PROVIDER: "openai", "gemini" or "mock" (default: "mock")
//   - OPENAI_API_KEY / OPENAI_MODEL, GEMINI_API_KEY / GEMINI_MODEL
func NewProviders(ctx context.Context, cfg *config.Config) (*Providers, error) {
	landmarks, err := NewLandmarkDetector(cfg)
	if err != nil {
		return nil, err
	}

	gate, err := NewFaceGate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	vision, err := NewFrameAnalyzer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Providers{Landmarks: landmarks, Gate: gate, Vision: vision}, nil
}

// NewLandmarkDetector creates the landmark detector named by LANDMARK_PROVIDER
func NewLandmarkDetector(cfg *config.Config) (provider.LandmarkDetector, error) {
	switch ProviderType(cfg.LandmarkProvider) {
	case ProviderTypeMediaPipe:
		return createMediaPipeProvider(cfg), nil

	case ProviderTypeMock, "":
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown landmark provider: %s (supported: %s, %s)",
			cfg.LandmarkProvider, ProviderTypeMediaPipe, ProviderTypeMock)
	}
}

// NewFaceGate creates the optional face gate named by FACE_GATE, nil for none
func NewFaceGate(ctx context.Context, cfg *config.Config) (provider.FaceGate, error) {
	switch ProviderType(cfg.FaceGate) {
	case ProviderTypeNone, "":
		return nil, nil

	case ProviderTypeMediaPipe:
		return createMediaPipeProvider(cfg), nil

	case ProviderTypeRekognition:
		rekogConfig := rekognition.DefaultConfig()
		if cfg.AWSRegion != "" {
			rekogConfig.Region = cfg.AWSRegion
		}
		prov, err := rekognition.NewProvider(ctx, rekogConfig)
		if err != nil {
			return nil, fmt.Errorf("create rekognition face gate: %w", err)
		}
		return prov, nil

	case ProviderTypeMock:
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown face gate: %s (supported: %s, %s, %s)",
			cfg.FaceGate, ProviderTypeNone, ProviderTypeMediaPipe, ProviderTypeRekognition)
	}
}

// NewFrameAnalyzer creates the vision provider named by VISION_PROVIDER
func NewFrameAnalyzer(ctx context.Context, cfg *config.Config) (provider.FrameAnalyzer, error) {
	switch ProviderType(cfg.VisionProvider) {
	case ProviderTypeOpenAI:
		prov, err := openai.NewProvider(openai.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai frame analyzer: %w", err)
		}
		return prov, nil

	case ProviderTypeGemini:
		prov, err := gemini.NewProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("create gemini frame analyzer: %w", err)
		}
		return prov, nil

	case ProviderTypeMock, "":
		return mock.New(), nil

	default:
		return nil, fmt.Errorf("unknown vision provider: %s (supported: %s, %s, %s)",
			cfg.VisionProvider, ProviderTypeOpenAI, ProviderTypeGemini, ProviderTypeMock)
	}
}

// createMediaPipeProvider creates a sidecar provider with default retry settings
func createMediaPipeProvider(cfg *config.Config) *mediapipe.Provider {
	mpConfig := mediapipe.DefaultConfig()
	if cfg.LandmarkURL != "" {
		mpConfig.BaseURL = cfg.LandmarkURL
	}
	return mediapipe.NewProvider(mpConfig)
}
