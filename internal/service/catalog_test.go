package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/cache"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

func newCatalogService(repo *MockFrameRepository, analyzer *MockFrameAnalyzer, c AnalysisCache, assets *MockAssetLoader) *CatalogService {
	svc := NewCatalogService(repo, analyzer, c, assets, time.Hour, discardLogger())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestCatalogService_Upsert(t *testing.T) {
	repo := new(MockFrameRepository)
	repo.On("Upsert", mock.Anything, []domain.Frame{
		{ID: "a", Name: "A", Src: "/a.png", Styles: []string{}, RecommendedFor: []string{}},
	}).Return(1, nil)

	svc := newCatalogService(repo, nil, nil, nil)
	saved, err := svc.Upsert(context.Background(), []domain.Frame{
		{ID: " a ", Name: "A", Src: "/a.png"},
		{ID: "b", Name: "", Src: "/b.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	repo.AssertExpectations(t)
}

func TestCatalogService_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		repoErr  error
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "absent", affected: 0, wantErr: domain.ErrFrameNotFound},
		{name: "store error", repoErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockFrameRepository)
			repo.On("Delete", mock.Anything, "x").Return(tt.affected, tt.repoErr)

			n, err := newCatalogService(repo, nil, nil, nil).Delete(context.Background(), "x")
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.repoErr != nil:
				assert.ErrorContains(t, err, "delete frame x")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.affected, n)
			}
		})
	}
}

func TestCatalogService_AnalyzeFrame(t *testing.T) {
	img := []byte("frame image bytes")
	key := cache.ContentKey(visionCacheNamespace, img)
	analysis := &domain.FrameAnalysis{RecommendedFor: []string{"round"}, Styles: []string{"rectangle"}, Reasoning: "angular"}

	t.Run("cache hit skips provider", func(t *testing.T) {
		c := new(MockAnalysisCache)
		analyzer := new(MockFrameAnalyzer)
		c.On("GetJSON", mock.Anything, key, mock.Anything).Return(nil, analysis)

		got, err := newCatalogService(nil, analyzer, c, nil).AnalyzeFrame(context.Background(), img, "image/png")
		require.NoError(t, err)
		assert.Equal(t, analysis, got)
		analyzer.AssertNotCalled(t, "AnalyzeFrame", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss calls provider and stores", func(t *testing.T) {
		c := new(MockAnalysisCache)
		analyzer := new(MockFrameAnalyzer)
		c.On("GetJSON", mock.Anything, key, mock.Anything).Return(cache.ErrCacheMiss, nil)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").Return(analysis, nil)
		c.On("SetJSON", mock.Anything, key, analysis, time.Hour).Return(nil)

		got, err := newCatalogService(nil, analyzer, c, nil).AnalyzeFrame(context.Background(), img, "image/png")
		require.NoError(t, err)
		assert.Equal(t, analysis, got)
		c.AssertExpectations(t)
		analyzer.AssertExpectations(t)
	})

	t.Run("cache errors do not fail the call", func(t *testing.T) {
		c := new(MockAnalysisCache)
		analyzer := new(MockFrameAnalyzer)
		c.On("GetJSON", mock.Anything, key, mock.Anything).Return(errors.New("db down"), nil)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").Return(analysis, nil)
		c.On("SetJSON", mock.Anything, key, analysis, time.Hour).Return(errors.New("db down"))

		got, err := newCatalogService(nil, analyzer, c, nil).AnalyzeFrame(context.Background(), img, "image/png")
		require.NoError(t, err)
		assert.Equal(t, analysis, got)
	})

	t.Run("provider errors pass through", func(t *testing.T) {
		analyzer := new(MockFrameAnalyzer)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").Return(nil, domain.ErrVisionMalformed)

		_, err := newCatalogService(nil, analyzer, nil, nil).AnalyzeFrame(context.Background(), img, "image/png")
		assert.ErrorIs(t, err, domain.ErrVisionMalformed)
	})

	t.Run("quota counts cache misses", func(t *testing.T) {
		analyzer := new(MockFrameAnalyzer)
		quota := new(MockVisionQuota)
		quota.On("Allow", mock.Anything, visionCacheNamespace).Return(nil)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").Return(analysis, nil)

		got, err := newCatalogService(nil, analyzer, nil, nil).WithQuota(quota).AnalyzeFrame(context.Background(), img, "image/png")
		require.NoError(t, err)
		assert.Equal(t, analysis, got)
		quota.AssertExpectations(t)
	})

	t.Run("quota exhausted skips provider", func(t *testing.T) {
		analyzer := new(MockFrameAnalyzer)
		quota := new(MockVisionQuota)
		quota.On("Allow", mock.Anything, visionCacheNamespace).Return(domain.ErrRateLimitExceeded)

		_, err := newCatalogService(nil, analyzer, nil, nil).WithQuota(quota).AnalyzeFrame(context.Background(), img, "image/png")
		assert.ErrorIs(t, err, domain.ErrRateLimitExceeded)
		analyzer.AssertNotCalled(t, "AnalyzeFrame", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache hit does not count against quota", func(t *testing.T) {
		c := new(MockAnalysisCache)
		quota := new(MockVisionQuota)
		c.On("GetJSON", mock.Anything, key, mock.Anything).Return(nil, analysis)

		_, err := newCatalogService(nil, new(MockFrameAnalyzer), c, nil).WithQuota(quota).AnalyzeFrame(context.Background(), img, "image/png")
		require.NoError(t, err)
		quota.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_AnalyzeDataURL(t *testing.T) {
	img := pngImage(t, 4, 4, red)
	analysis := &domain.FrameAnalysis{Styles: []string{"round"}}

	t.Run("data url", func(t *testing.T) {
		analyzer := new(MockFrameAnalyzer)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").Return(analysis, nil)

		got, err := newCatalogService(nil, analyzer, nil, nil).AnalyzeDataURL(context.Background(), asset.DataURL(img, "image/png"))
		require.NoError(t, err)
		assert.Equal(t, analysis, got)
	})

	t.Run("missing media type is sniffed", func(t *testing.T) {
		analyzer := new(MockFrameAnalyzer)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").Return(analysis, nil)

		_, err := newCatalogService(nil, analyzer, nil, nil).AnalyzeDataURL(context.Background(), asset.DataURL(img, ""))
		require.NoError(t, err)
		analyzer.AssertExpectations(t)
	})

	t.Run("not a data url", func(t *testing.T) {
		_, err := newCatalogService(nil, new(MockFrameAnalyzer), nil, nil).AnalyzeDataURL(context.Background(), "https://example.com/a.png")
		assert.ErrorIs(t, err, domain.ErrBadRequest)
	})
}

func TestCatalogService_TagFrame(t *testing.T) {
	img := pngImage(t, 8, 4, red)
	stored := &domain.Frame{
		ID: "glass9", Name: "Glass 9", Src: "/glass9.png",
		Styles: []string{"wayfarer"}, RecommendedFor: []string{}, Reasoning: "old",
	}

	t.Run("merges analysis into stored frame", func(t *testing.T) {
		repo := new(MockFrameRepository)
		analyzer := new(MockFrameAnalyzer)
		assets := new(MockAssetLoader)

		repo.On("Get", mock.Anything, "glass9").Return(stored, nil)
		assets.On("Fetch", mock.Anything, "/glass9.png").Return(img, nil)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").
			Return(&domain.FrameAnalysis{RecommendedFor: []string{"heart"}, Styles: []string{}, Reasoning: ""}, nil)
		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(frames []domain.Frame) bool {
			return len(frames) == 1 && frames[0].ID == "glass9"
		})).Return(1, nil)

		got, err := newCatalogService(repo, analyzer, nil, assets).TagFrame(context.Background(), "glass9")
		require.NoError(t, err)
		assert.Equal(t, []string{"heart"}, got.RecommendedFor)
		assert.Equal(t, []string{"wayfarer"}, got.Styles)
		assert.Equal(t, "old", got.Reasoning)
		repo.AssertExpectations(t)
	})

	t.Run("builtin frame is tagged and stored", func(t *testing.T) {
		repo := new(MockFrameRepository)
		analyzer := new(MockFrameAnalyzer)
		assets := new(MockAssetLoader)

		repo.On("Get", mock.Anything, "glass4").Return(nil, domain.ErrFrameNotFound)
		assets.On("Fetch", mock.Anything, "/glass4.png").Return(img, nil)
		analyzer.On("AnalyzeFrame", mock.Anything, img, "image/png").
			Return(&domain.FrameAnalysis{Reasoning: "bold brow"}, nil)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(1, nil)

		got, err := newCatalogService(repo, analyzer, nil, assets).TagFrame(context.Background(), "glass4")
		require.NoError(t, err)
		assert.Equal(t, "Glass 4", got.Name)
		assert.Equal(t, "bold brow", got.Reasoning)
	})

	t.Run("missing frame", func(t *testing.T) {
		repo := new(MockFrameRepository)
		repo.On("Get", mock.Anything, "nope").Return(nil, domain.ErrFrameNotFound)

		_, err := newCatalogService(repo, nil, nil, nil).TagFrame(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrFrameNotFound)
	})

	t.Run("asset unavailable", func(t *testing.T) {
		repo := new(MockFrameRepository)
		assets := new(MockAssetLoader)
		repo.On("Get", mock.Anything, "glass9").Return(stored, nil)
		assets.On("Fetch", mock.Anything, "/glass9.png").Return(nil, errors.New("no such file"))

		_, err := newCatalogService(repo, nil, nil, assets).TagFrame(context.Background(), "glass9")
		assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
	})
}

func TestCatalogService_Import(t *testing.T) {
	first := pngImage(t, 10, 5, red)
	second := pngImage(t, 6, 6, white)

	repo := new(MockFrameRepository)
	analyzer := new(MockFrameAnalyzer)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(frames []domain.Frame) bool {
		return len(frames) == 2 && len(frames[0].RecommendedFor) == 0 && len(frames[1].RecommendedFor) == 0
	})).Return(2, nil).Once()
	analyzer.On("AnalyzeFrame", mock.Anything, first, "image/png").
		Return(&domain.FrameAnalysis{RecommendedFor: []string{"oval"}, Styles: []string{"cat-eye"}}, nil)
	analyzer.On("AnalyzeFrame", mock.Anything, second, "image/png").
		Return(nil, domain.ErrVisionUnavailable)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(frames []domain.Frame) bool {
		return len(frames) == 2 && len(frames[0].RecommendedFor) == 1
	})).Return(2, nil).Once()

	got, err := newCatalogService(repo, analyzer, nil, nil).Import(context.Background(), []Upload{
		{Filename: "Cat Eye Frames.png", Data: first},
		{Filename: "notes.txt", Data: []byte("hello")},
		{Filename: "Cat Eye Frames.png", Data: second},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "upload-1700000000000-cat-eye-frames", got[0].ID)
	assert.Equal(t, "Cat Eye Frames", got[0].Name)
	assert.True(t, strings.HasPrefix(got[0].Src, "data:image/png;base64,"))
	assert.Equal(t, []string{"oval"}, got[0].RecommendedFor)
	assert.Equal(t, []string{"cat-eye"}, got[0].Styles)

	assert.Equal(t, "upload-1700000000000-cat-eye-frames-2", got[1].ID)
	assert.Empty(t, got[1].RecommendedFor)

	repo.AssertExpectations(t)
	analyzer.AssertExpectations(t)
}

func TestCatalogService_Import_NoImages(t *testing.T) {
	_, err := newCatalogService(new(MockFrameRepository), nil, nil, nil).Import(context.Background(), []Upload{
		{Filename: "a.txt", Data: []byte("text")},
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestUploadName(t *testing.T) {
	tests := []struct {
		filename string
		wantName string
		wantSlug string
	}{
		{filename: "Ray Ban Classic.webp", wantName: "Ray Ban Classic", wantSlug: "ray-ban-classic"},
		{filename: "path/to/--Gold__Round--.png", wantName: "--Gold__Round--", wantSlug: "gold-round"},
		{filename: "aviator", wantName: "aviator", wantSlug: "aviator"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			name, slug := uploadName(tt.filename)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantSlug, slug)
		})
	}

	name, slug := uploadName("???.png")
	assert.Len(t, slug, 8)
	assert.Equal(t, "???", name)
}
