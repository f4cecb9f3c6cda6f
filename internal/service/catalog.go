package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/asset"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/cache"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/catalog"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/provider"
)

const (
	visionCacheNamespace = "vision:frame"
	importMaxWidth       = 700
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FrameRepositoryInterface is the frame store the catalog service writes to.
type FrameRepositoryInterface interface {
	FrameReader
	Upsert(ctx context.Context, frames []domain.Frame) (int, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// AnalysisCache stores vision results by key.
type AnalysisCache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// VisionQuota bounds how often the vision provider may be called.
type VisionQuota interface {
	Allow(ctx context.Context, key string) error
}

// Upload is one image file submitted for import.
type Upload struct {
	Filename string
	Data     []byte
}

type CatalogService struct {
	repo     FrameRepositoryInterface
	analyzer provider.FrameAnalyzer
	cache    AnalysisCache
	quota    VisionQuota
	assets   AssetLoader
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewCatalogService creates the catalog service. cache may be nil.
func NewCatalogService(
	repo FrameRepositoryInterface,
	analyzer provider.FrameAnalyzer,
	analysisCache AnalysisCache,
	assets AssetLoader,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		repo:     repo,
		analyzer: analyzer,
		cache:    analysisCache,
		assets:   assets,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// WithQuota makes cache misses count against q before the provider is
// called.
func (s *CatalogService) WithQuota(q VisionQuota) *CatalogService {
	s.quota = q
	return s
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Frame, error) {
	frames, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return frames, nil
}

// Upsert normalizes frames and saves the valid ones.
func (s *CatalogService) Upsert(ctx context.Context, frames []domain.Frame) (int, error) {
	valid := domain.NormalizeFrames(frames)
	if dropped := len(frames) - len(valid); dropped > 0 {
		s.logger.Debug("dropped incomplete frames", slog.Int("count", dropped))
	}

	saved, err := s.repo.Upsert(ctx, valid)
	if err != nil {
		return 0, fmt.Errorf("save catalog: %w", err)
	}
	return saved, nil
}

// Delete removes a frame. Deleting an absent id is ErrFrameNotFound.
func (s *CatalogService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete frame %s: %w", id, err)
	}
	if n == 0 {
		return 0, domain.ErrFrameNotFound
	}
	return n, nil
}

// AnalyzeFrame asks the vision provider about a glasses image. Results are
// cached by image content.
func (s *CatalogService) AnalyzeFrame(ctx context.Context, image []byte, mime string) (*domain.FrameAnalysis, error) {
	key := cache.ContentKey(visionCacheNamespace, image)

	if s.cache != nil {
		var cached domain.FrameAnalysis
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrCacheExpired) {
			s.logger.Warn("vision cache read failed", slog.Any("error", err))
		}
	}

	if s.quota != nil {
		if err := s.quota.Allow(ctx, visionCacheNamespace); err != nil {
			return nil, err
		}
	}

	analysis, err := s.analyzer.AnalyzeFrame(ctx, image, mime)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, analysis, s.cacheTTL); err != nil {
			s.logger.Warn("vision cache write failed", slog.Any("error", err))
		}
	}

	return analysis, nil
}

// AnalyzeDataURL decodes a data URL and analyzes the image in it.
func (s *CatalogService) AnalyzeDataURL(ctx context.Context, dataURL string) (*domain.FrameAnalysis, error) {
	data, mime, err := asset.ParseDataURL(strings.TrimSpace(dataURL))
	if err != nil {
		return nil, domain.ErrBadRequest.WithError(err)
	}
	if mime == "" {
		format, _, _, err := asset.DecodeConfig(data)
		if err != nil {
			return nil, domain.ErrInvalidImage.WithError(err)
		}
		mime = "image/" + format
	}
	return s.AnalyzeFrame(ctx, data, mime)
}

// TagFrame analyzes a frame's image and saves the merged result. Builtin
// frames are written to the store on first tag.
func (s *CatalogService) TagFrame(ctx context.Context, id string) (*domain.Frame, error) {
	frame, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.assets.Fetch(ctx, frame.Src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.ErrAssetUnavailable.WithError(err)
	}

	format, _, _, err := asset.DecodeConfig(data)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	analysis, err := s.AnalyzeFrame(ctx, data, "image/"+format)
	if err != nil {
		return nil, err
	}

	tagged := frame.Merge(analysis)
	if _, err := s.repo.Upsert(ctx, []domain.Frame{tagged}); err != nil {
		return nil, fmt.Errorf("save tagged frame: %w", err)
	}

	s.logger.Info("frame tagged",
		slog.String("frame_id", tagged.ID),
		slog.Any("recommended_for", tagged.RecommendedFor),
	)
	return &tagged, nil
}

// Import creates frames from uploaded images, saves them and then tags each
// one. A failed tag leaves the frame saved without tags. Files that are not
// images are skipped.
func (s *CatalogService) Import(ctx context.Context, uploads []Upload) ([]domain.Frame, error) {
	frames := make([]domain.Frame, 0, len(uploads))
	raw := make(map[string][]byte, len(uploads))
	seen := make(map[string]int)

	for _, u := range uploads {
		data, mime, err := asset.Downscale(u.Data, importMaxWidth)
		if err != nil {
			s.logger.Debug("skipping upload", slog.String("filename", u.Filename), slog.Any("error", err))
			continue
		}

		name, slug := uploadName(u.Filename)
		id := fmt.Sprintf("upload-%d-%s", s.now().UnixMilli(), slug)
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = fmt.Sprintf("%s-%d", id, n+1)
		} else {
			seen[id] = 1
		}

		frames = append(frames, domain.Frame{
			ID:             id,
			Name:           name,
			Src:            asset.DataURL(data, mime),
			Styles:         []string{},
			RecommendedFor: []string{},
		})
		raw[id] = data
	}

	if len(frames) == 0 {
		return nil, domain.ErrValidationFailed.WithError(errors.New("no image files in upload"))
	}

	if _, err := s.repo.Upsert(ctx, frames); err != nil {
		return nil, fmt.Errorf("save imported frames: %w", err)
	}

	tagged := make([]domain.Frame, 0, len(frames))
	for _, f := range frames {
		_, mime, _ := asset.ParseDataURL(f.Src)
		analysis, err := s.AnalyzeFrame(ctx, raw[f.ID], mime)
		if err != nil {
			s.logger.Warn("frame analysis failed", slog.String("frame_id", f.ID), slog.Any("error", err))
			tagged = append(tagged, f)
			continue
		}
		tagged = append(tagged, f.Merge(analysis))
	}

	if _, err := s.repo.Upsert(ctx, tagged); err != nil {
		s.logger.Warn("saving frame tags failed", slog.Any("error", err))
		return frames, nil
	}

	return tagged, nil
}

func (s *CatalogService) lookup(ctx context.Context, id string) (domain.Frame, error) {
	frame, err := s.repo.Get(ctx, id)
	if err == nil {
		return *frame, nil
	}
	if !errors.Is(err, domain.ErrFrameNotFound) {
		return domain.Frame{}, fmt.Errorf("get frame %s: %w", id, err)
	}
	if builtin, ok := catalog.FindBuiltin(id); ok {
		return builtin, nil
	}
	return domain.Frame{}, domain.ErrFrameNotFound
}

// uploadName derives a display name and id slug from a file name. Names
// without any usable characters get a random slug.
func uploadName(filename string) (name, slug string) {
	base := filepath.Base(filename)
	name = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "." || name == "/" {
		name = ""
	}

	slug = strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	if name == "" {
		name = slug
	}
	return name, slug
}
