package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/catalog"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/overlay"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
)

// FrameReader is the read side of the frame store.
type FrameReader interface {
	List(ctx context.Context) ([]domain.Frame, error)
	Get(ctx context.Context, id string) (*domain.Frame, error)
}

// AssetLoader resolves a frame src to bytes or a decoded image.
type AssetLoader interface {
	Load(ctx context.Context, src string) (*asset.Asset, error)
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// AnalyzeRequest is a photo to classify plus the caller's suggestion
// preferences.
type AnalyzeRequest struct {
	Image           []byte
	Shape           string
	OnlyRecommended bool
	SelectedID      string
}

// AnalyzeResult is the classification of a photo and the frames suggested
// for it.
type AnalyzeResult struct {
	Classification faceshape.Result `json:"classification"`
	Shape          faceshape.Shape  `json:"shape"`
	ImageWidth     int              `json:"imageWidth"`
	ImageHeight    int              `json:"imageHeight"`
	Suggestions    []domain.Frame   `json:"suggestions"`
	Selected       *domain.Frame    `json:"selected"`
}

// RenderResult is a composited PNG and where the overlay went.
type RenderResult struct {
	PNG       []byte
	Frame     domain.Frame
	Placement *overlay.Placement
}

type TryOnService struct {
	detector provider.LandmarkDetector
	gate     provider.FaceGate
	frames   FrameReader
	assets   AssetLoader
	logger   *slog.Logger
}

// NewTryOnService wires the try-on pipeline. gate may be nil to skip the
// face count check.
func NewTryOnService(
	detector provider.LandmarkDetector,
	gate provider.FaceGate,
	frames FrameReader,
	assets AssetLoader,
	logger *slog.Logger,
) *TryOnService {
	return &TryOnService{
		detector: detector,
		gate:     gate,
		frames:   frames,
		assets:   assets,
		logger:   logger,
	}
}

func (s *TryOnService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	_, width, height, err := asset.DecodeConfig(req.Image)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	landmarks, err := s.detect(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	result := faceshape.Classify(landmarks, width, height)
	s.logger.Debug("face shape scores",
		slog.String("shape", string(result.Shape)),
		slog.Any("scores", result.Scores),
	)

	shape := catalog.EffectiveShape(result.Shape, req.Shape)
	frames := s.catalog(ctx)

	var suggestions []domain.Frame
	if req.OnlyRecommended {
		suggestions = catalog.OnlyRecommended(shape, frames)
	} else {
		suggestions = catalog.Suggest(shape, frames)
	}

	return &AnalyzeResult{
		Classification: result,
		Shape:          shape,
		ImageWidth:     width,
		ImageHeight:    height,
		Suggestions:    suggestions,
		Selected:       selectFrame(suggestions, req.SelectedID),
	}, nil
}

// Render composites the frame over the photo. The overlay asset is fully
// loaded before placement is computed.
func (s *TryOnService) Render(ctx context.Context, image []byte, frameID string) (*RenderResult, error) {
	photo, err := asset.Decode(image)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	landmarks, err := s.detect(ctx, image)
	if err != nil {
		return nil, err
	}

	frame, err := s.resolveFrame(ctx, frameID)
	if err != nil {
		return nil, err
	}

	glasses, err := s.assets.Load(ctx, frame.Src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.ErrAssetUnavailable.WithError(fmt.Errorf("frame %s: %w", frame.ID, err))
	}

	canvas, placement := overlay.Render(photo.Image, glasses.Image, landmarks)
	if placement == nil {
		s.logger.Warn("overlay not placed", slog.String("frame_id", frame.ID))
	}

	png, err := asset.EncodePNG(canvas)
	if err != nil {
		return nil, fmt.Errorf("encode composite: %w", err)
	}

	return &RenderResult{PNG: png, Frame: frame, Placement: placement}, nil
}

func (s *TryOnService) detect(ctx context.Context, image []byte) ([]faceshape.Point, error) {
	if s.gate != nil {
		count, err := s.gate.CountFaces(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("count faces: %w", err)
		}
		switch {
		case count == 0:
			return nil, domain.ErrNoFaceDetected
		case count > 1:
			return nil, domain.ErrMultipleFaces
		}
	}

	landmarks, err := s.detector.Detect(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}
	if !faceshape.Valid(landmarks) {
		s.logger.Warn("incomplete face mesh", slog.Int("points", len(landmarks)))
	}
	return landmarks, nil
}

// catalog lists stored frames, falling back to the builtin set when the
// store is unreachable. An empty store is returned as is.
func (s *TryOnService) catalog(ctx context.Context) []domain.Frame {
	frames, err := s.frames.List(ctx)
	if err != nil {
		s.logger.Warn("catalog unavailable, using builtin frames", slog.Any("error", err))
		return catalog.Builtin()
	}
	return frames
}

func (s *TryOnService) resolveFrame(ctx context.Context, id string) (domain.Frame, error) {
	frame, err := s.frames.Get(ctx, id)
	if err == nil {
		return *frame, nil
	}
	if !errors.Is(err, domain.ErrFrameNotFound) {
		s.logger.Warn("frame lookup failed", slog.String("frame_id", id), slog.Any("error", err))
	}

	if builtin, ok := catalog.FindBuiltin(id); ok {
		return builtin, nil
	}
	return domain.Frame{}, domain.ErrFrameNotFound
}

// selectFrame keeps the caller's current selection when it is still
// suggested, otherwise picks the first suggestion.
func selectFrame(suggestions []domain.Frame, currentID string) *domain.Frame {
	if currentID != "" {
		if f, ok := catalog.Find(suggestions, currentID); ok {
			return &f
		}
	}
	if len(suggestions) == 0 {
		return nil
	}
	f := suggestions[0]
	return &f
}
