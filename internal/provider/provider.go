package provider

import (
	"context"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

// LandmarkDetector locates the 468-point face mesh of the single face in an
// image. Points are normalized to the image size.
type LandmarkDetector interface {
	// Detect returns domain.ErrNoFaceDetected when the image holds no face.
	Detect(ctx context.Context, image []byte) ([]faceshape.Point, error)
}

// FaceGate counts faces before the heavier landmark pass so multi-face and
// empty photos can be rejected early.
type FaceGate interface {
	CountFaces(ctx context.Context, image []byte) (int, error)
}

// FrameAnalyzer infers suitable face shapes and style tags from a glasses
// image.
type FrameAnalyzer interface {
	AnalyzeFrame(ctx context.Context, image []byte, mime string) (*domain.FrameAnalysis, error)
}
