package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
)

type MockLandmarkDetector struct {
	mock.Mock
}

func (m *MockLandmarkDetector) Detect(ctx context.Context, image []byte) ([]faceshape.Point, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]faceshape.Point), args.Error(1)
}

type MockFaceGate struct {
	mock.Mock
}

func (m *MockFaceGate) CountFaces(ctx context.Context, image []byte) (int, error) {
	args := m.Called(ctx, image)
	return args.Int(0), args.Error(1)
}

type MockFrameAnalyzer struct {
	mock.Mock
}

func (m *MockFrameAnalyzer) AnalyzeFrame(ctx context.Context, image []byte, mime string) (*domain.FrameAnalysis, error) {
	args := m.Called(ctx, image, mime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FrameAnalysis), args.Error(1)
}

type MockFrameRepository struct {
	mock.Mock
}

func (m *MockFrameRepository) List(ctx context.Context) ([]domain.Frame, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Frame), args.Error(1)
}

func (m *MockFrameRepository) Get(ctx context.Context, id string) (*domain.Frame, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Frame), args.Error(1)
}

func (m *MockFrameRepository) Upsert(ctx context.Context, frames []domain.Frame) (int, error) {
	args := m.Called(ctx, frames)
	return args.Int(0), args.Error(1)
}

func (m *MockFrameRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAssetLoader struct {
	mock.Mock
}

func (m *MockAssetLoader) Load(ctx context.Context, src string) (*asset.Asset, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetLoader) Fetch(ctx context.Context, src string) ([]byte, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) GetJSON(ctx context.Context, key string, dst any) error {
	args := m.Called(ctx, key, dst)
	if hit, ok := args.Get(1).(*domain.FrameAnalysis); ok && hit != nil {
		*dst.(*domain.FrameAnalysis) = *hit
	}
	return args.Error(0)
}

func (m *MockAnalysisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	args := m.Called(ctx, key, v, ttl)
	return args.Error(0)
}

type MockVisionQuota struct {
	mock.Mock
}

func (m *MockVisionQuota) Allow(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pngImage(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
