package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/faceshape/facetest"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
)

func ovalFace(w, h int) []faceshape.Point {
	return facetest.Frontal(w, h, 180, 200, 170, 290).Points(w, h)
}

func testFrames() []domain.Frame {
	return []domain.Frame{
		{ID: "round-pick", Name: "Round Pick", Src: "/round.png", RecommendedFor: []string{"round"}},
		{ID: "oval-pick", Name: "Oval Pick", Src: "/oval.png", RecommendedFor: []string{"oval"}},
		{ID: "plain", Name: "Plain", Src: "/plain.png"},
	}
}

func frameIDs(frames []domain.Frame) []string {
	ids := make([]string, 0, len(frames))
	for _, f := range frames {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestTryOnService_Analyze(t *testing.T) {
	photo := pngImage(t, 600, 600, white)

	tests := []struct {
		name         string
		req          AnalyzeRequest
		setupMocks   func(*MockLandmarkDetector, *MockFrameRepository)
		wantShape    faceshape.Shape
		wantIDs      []string
		wantSelected string
	}{
		{
			name: "detected shape orders suggestions",
			req:  AnalyzeRequest{Image: photo},
			setupMocks: func(d *MockLandmarkDetector, r *MockFrameRepository) {
				d.On("Detect", mock.Anything, photo).Return(ovalFace(600, 600), nil)
				r.On("List", mock.Anything).Return(testFrames(), nil)
			},
			wantShape:    faceshape.Oval,
			wantIDs:      []string{"oval-pick", "round-pick", "plain"},
			wantSelected: "oval-pick",
		},
		{
			name: "shape override wins",
			req:  AnalyzeRequest{Image: photo, Shape: " Round "},
			setupMocks: func(d *MockLandmarkDetector, r *MockFrameRepository) {
				d.On("Detect", mock.Anything, photo).Return(ovalFace(600, 600), nil)
				r.On("List", mock.Anything).Return(testFrames(), nil)
			},
			wantShape:    faceshape.Round,
			wantIDs:      []string{"round-pick", "oval-pick", "plain"},
			wantSelected: "round-pick",
		},
		{
			name: "only recommended filters",
			req:  AnalyzeRequest{Image: photo, OnlyRecommended: true},
			setupMocks: func(d *MockLandmarkDetector, r *MockFrameRepository) {
				d.On("Detect", mock.Anything, photo).Return(ovalFace(600, 600), nil)
				r.On("List", mock.Anything).Return(testFrames(), nil)
			},
			wantShape:    faceshape.Oval,
			wantIDs:      []string{"oval-pick"},
			wantSelected: "oval-pick",
		},
		{
			name: "current selection kept when still suggested",
			req:  AnalyzeRequest{Image: photo, SelectedID: "plain"},
			setupMocks: func(d *MockLandmarkDetector, r *MockFrameRepository) {
				d.On("Detect", mock.Anything, photo).Return(ovalFace(600, 600), nil)
				r.On("List", mock.Anything).Return(testFrames(), nil)
			},
			wantShape:    faceshape.Oval,
			wantIDs:      []string{"oval-pick", "round-pick", "plain"},
			wantSelected: "plain",
		},
		{
			name: "store failure falls back to builtin catalog",
			req:  AnalyzeRequest{Image: photo},
			setupMocks: func(d *MockLandmarkDetector, r *MockFrameRepository) {
				d.On("Detect", mock.Anything, photo).Return(ovalFace(600, 600), nil)
				r.On("List", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			wantShape:    faceshape.Oval,
			wantIDs:      []string{"classic-black-rect", "glass2", "thin-gold-round", "glass3", "glass4"},
			wantSelected: "classic-black-rect",
		},
		{
			name: "empty store stays empty",
			req:  AnalyzeRequest{Image: photo},
			setupMocks: func(d *MockLandmarkDetector, r *MockFrameRepository) {
				d.On("Detect", mock.Anything, photo).Return(ovalFace(600, 600), nil)
				r.On("List", mock.Anything).Return([]domain.Frame{}, nil)
			},
			wantShape: faceshape.Oval,
			wantIDs:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := new(MockLandmarkDetector)
			repo := new(MockFrameRepository)
			tt.setupMocks(detector, repo)

			svc := NewTryOnService(detector, nil, repo, new(MockAssetLoader), discardLogger())
			got, err := svc.Analyze(context.Background(), tt.req)

			require.NoError(t, err)
			assert.Equal(t, faceshape.Oval, got.Classification.Shape)
			assert.Equal(t, tt.wantShape, got.Shape)
			assert.Equal(t, 600, got.ImageWidth)
			assert.Equal(t, tt.wantIDs, frameIDs(got.Suggestions))
			if tt.wantSelected == "" {
				assert.Nil(t, got.Selected)
			} else {
				require.NotNil(t, got.Selected)
				assert.Equal(t, tt.wantSelected, got.Selected.ID)
			}

			detector.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestTryOnService_Analyze_Failures(t *testing.T) {
	photo := pngImage(t, 100, 100, white)

	tests := []struct {
		name       string
		image      []byte
		setupMocks func(*MockLandmarkDetector, *MockFaceGate)
		wantErr    error
	}{
		{
			name:       "undecodable image",
			image:      []byte("not an image"),
			setupMocks: func(*MockLandmarkDetector, *MockFaceGate) {},
			wantErr:    domain.ErrInvalidImage,
		},
		{
			name:  "gate sees no face",
			image: photo,
			setupMocks: func(d *MockLandmarkDetector, g *MockFaceGate) {
				g.On("CountFaces", mock.Anything, photo).Return(0, nil)
			},
			wantErr: domain.ErrNoFaceDetected,
		},
		{
			name:  "gate sees two faces",
			image: photo,
			setupMocks: func(d *MockLandmarkDetector, g *MockFaceGate) {
				g.On("CountFaces", mock.Anything, photo).Return(2, nil)
			},
			wantErr: domain.ErrMultipleFaces,
		},
		{
			name:  "detector finds no face",
			image: photo,
			setupMocks: func(d *MockLandmarkDetector, g *MockFaceGate) {
				g.On("CountFaces", mock.Anything, photo).Return(1, nil)
				d.On("Detect", mock.Anything, photo).Return(nil, domain.ErrNoFaceDetected)
			},
			wantErr: domain.ErrNoFaceDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detector := new(MockLandmarkDetector)
			gate := new(MockFaceGate)
			tt.setupMocks(detector, gate)

			svc := NewTryOnService(detector, gate, new(MockFrameRepository), new(MockAssetLoader), discardLogger())
			got, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: tt.image})

			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
			detector.AssertExpectations(t)
			gate.AssertExpectations(t)
		})
	}
}

func TestTryOnService_Analyze_IncompleteMesh(t *testing.T) {
	photo := pngImage(t, 600, 600, white)
	partial := ovalFace(600, 600)[:300]

	detector := new(MockLandmarkDetector)
	repo := new(MockFrameRepository)
	detector.On("Detect", mock.Anything, photo).Return(partial, nil)
	repo.On("List", mock.Anything).Return(testFrames(), nil)

	svc := NewTryOnService(detector, nil, repo, new(MockAssetLoader), discardLogger())
	got, err := svc.Analyze(context.Background(), AnalyzeRequest{Image: photo})

	require.NoError(t, err)
	assert.Equal(t, faceshape.Unknown, got.Classification.Shape)
	assert.Nil(t, got.Classification.Metrics)
	assert.Empty(t, got.Classification.Scores)
	assert.Equal(t, faceshape.Unknown, got.Shape)
	assert.Equal(t, []string{"round-pick", "oval-pick", "plain"}, frameIDs(got.Suggestions))
	require.NotNil(t, got.Selected)
	assert.Equal(t, "round-pick", got.Selected.ID)

	detector.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestTryOnService_Render(t *testing.T) {
	photo := pngImage(t, 400, 400, white)
	glasses, err := asset.Decode(pngImage(t, 90, 30, red))
	require.NoError(t, err)

	t.Run("composites stored frame", func(t *testing.T) {
		detector := new(MockLandmarkDetector)
		repo := new(MockFrameRepository)
		assets := new(MockAssetLoader)

		detector.On("Detect", mock.Anything, photo).Return(ovalFace(400, 400), nil)
		repo.On("Get", mock.Anything, "oval-pick").Return(&testFrames()[1], nil)
		assets.On("Load", mock.Anything, "/oval.png").Return(glasses, nil)

		svc := NewTryOnService(detector, nil, repo, assets, discardLogger())
		got, err := svc.Render(context.Background(), photo, "oval-pick")
		require.NoError(t, err)

		assert.Equal(t, "oval-pick", got.Frame.ID)
		require.NotNil(t, got.Placement)
		assert.InDelta(t, 200.0, got.Placement.CenterX, 1e-6)
		assert.InDelta(t, 200.0, got.Placement.Width, 1e-6)
		assert.InDelta(t, 200.0/3, got.Placement.Height, 1e-6)

		out, format, err := image.Decode(bytes.NewReader(got.PNG))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, image.Rect(0, 0, 400, 400), out.Bounds())

		r, g, b, _ := out.At(200, int(got.Placement.CenterY)).RGBA()
		assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})

		detector.AssertExpectations(t)
		repo.AssertExpectations(t)
		assets.AssertExpectations(t)
	})

	t.Run("falls back to builtin frame", func(t *testing.T) {
		detector := new(MockLandmarkDetector)
		repo := new(MockFrameRepository)
		assets := new(MockAssetLoader)

		detector.On("Detect", mock.Anything, photo).Return(ovalFace(400, 400), nil)
		repo.On("Get", mock.Anything, "glass2").Return(nil, domain.ErrFrameNotFound)
		assets.On("Load", mock.Anything, "/glass2.png").Return(glasses, nil)

		svc := NewTryOnService(detector, nil, repo, assets, discardLogger())
		got, err := svc.Render(context.Background(), photo, "glass2")
		require.NoError(t, err)
		assert.Equal(t, "Glass 2", got.Frame.Name)
	})

	t.Run("unknown frame", func(t *testing.T) {
		detector := new(MockLandmarkDetector)
		repo := new(MockFrameRepository)

		detector.On("Detect", mock.Anything, photo).Return(ovalFace(400, 400), nil)
		repo.On("Get", mock.Anything, "nope").Return(nil, errors.New("timeout"))

		svc := NewTryOnService(detector, nil, repo, new(MockAssetLoader), discardLogger())
		_, err := svc.Render(context.Background(), photo, "nope")
		assert.ErrorIs(t, err, domain.ErrFrameNotFound)
	})

	t.Run("asset failure", func(t *testing.T) {
		detector := new(MockLandmarkDetector)
		repo := new(MockFrameRepository)
		assets := new(MockAssetLoader)

		detector.On("Detect", mock.Anything, photo).Return(ovalFace(400, 400), nil)
		repo.On("Get", mock.Anything, "oval-pick").Return(&testFrames()[1], nil)
		assets.On("Load", mock.Anything, "/oval.png").Return(nil, errors.New("status 404"))

		svc := NewTryOnService(detector, nil, repo, assets, discardLogger())
		_, err := svc.Render(context.Background(), photo, "oval-pick")
		assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
	})

	t.Run("incomplete mesh still places overlay from eye corners", func(t *testing.T) {
		detector := new(MockLandmarkDetector)
		repo := new(MockFrameRepository)
		assets := new(MockAssetLoader)

		detector.On("Detect", mock.Anything, photo).Return(ovalFace(400, 400)[:faceshape.RightEyeOuter+1], nil)
		repo.On("Get", mock.Anything, "oval-pick").Return(&testFrames()[1], nil)
		assets.On("Load", mock.Anything, "/oval.png").Return(glasses, nil)

		svc := NewTryOnService(detector, nil, repo, assets, discardLogger())
		got, err := svc.Render(context.Background(), photo, "oval-pick")
		require.NoError(t, err)
		require.NotNil(t, got.Placement)
		assert.InDelta(t, 200.0, got.Placement.Width, 1e-6)
	})

	t.Run("invalid photo", func(t *testing.T) {
		svc := NewTryOnService(new(MockLandmarkDetector), nil, new(MockFrameRepository), new(MockAssetLoader), discardLogger())
		_, err := svc.Render(context.Background(), []byte("junk"), "glass2")
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})
}
