package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/service"
)

// CatalogService is what the catalog and vision routes need.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Frame, error)
	Upsert(ctx context.Context, frames []domain.Frame) (int, error)
	Delete(ctx context.Context, id string) (int64, error)
	TagFrame(ctx context.Context, id string) (*domain.Frame, error)
	Import(ctx context.Context, uploads []service.Upload) ([]domain.Frame, error)
	AnalyzeDataURL(ctx context.Context, dataURL string) (*domain.FrameAnalysis, error)
}

// FrameDTO is one catalog item in a save request. Items missing id, name or
// src are dropped rather than rejected.
type FrameDTO struct {
	ID             string   `json:"id" validate:"max=128"`
	Name           string   `json:"name" validate:"max=200"`
	Src            string   `json:"src"`
	Styles         []string `json:"styles" validate:"max=32,dive,max=64"`
	RecommendedFor []string `json:"recommendedFor" validate:"max=16,dive,max=32"`
	Reasoning      string   `json:"reasoning" validate:"max=2000"`
}

// SaveCatalogRequest body for POST /api/catalog
type SaveCatalogRequest struct {
	Items []FrameDTO `json:"items" validate:"dive"`
}

type CatalogListResponse struct {
	Items []domain.Frame `json:"items"`
}

type SaveCatalogResponse struct {
	Saved int `json:"saved"`
}

type DeleteFrameResponse struct {
	Deleted int64 `json:"deleted"`
}

type FrameResponse struct {
	Item *domain.Frame `json:"item"`
}

type CatalogHandler struct {
	service  CatalogService
	validate *validator.Validate
	maxBytes int64
	logger   *slog.Logger
}

func NewCatalogHandler(svc CatalogService, validate *validator.Validate, maxBytes int64, logger *slog.Logger) *CatalogHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &CatalogHandler{
		service:  svc,
		validate: validate,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// List GET /api/catalog
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	frames, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(CatalogListResponse{Items: frames})
}

// Save POST /api/catalog
func (h *CatalogHandler) Save(c *fiber.Ctx) error {
	var req SaveCatalogRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.Items == nil {
		return domain.ErrBadRequest.WithError(errors.New("items must be an array"))
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	frames := make([]domain.Frame, 0, len(req.Items))
	for _, item := range req.Items {
		frames = append(frames, domain.Frame{
			ID:             item.ID,
			Name:           item.Name,
			Src:            item.Src,
			Styles:         item.Styles,
			RecommendedFor: item.RecommendedFor,
			Reasoning:      item.Reasoning,
		})
	}

	saved, err := h.service.Upsert(c.Context(), frames)
	if err != nil {
		return err
	}
	return c.JSON(SaveCatalogResponse{Saved: saved})
}

// Delete DELETE /api/catalog/:id
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return domain.ErrBadRequest.WithError(errors.New("id is required"))
	}

	n, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(DeleteFrameResponse{Deleted: n})
}

// Tag POST /api/catalog/:id/tag
func (h *CatalogHandler) Tag(c *fiber.Ctx) error {
	frame, err := h.service.TagFrame(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(FrameResponse{Item: frame})
}

// Import POST /api/catalog/import
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	files := append(form.File["images"], form.File["images[]"]...)
	if len(files) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("images are required"))
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, file := range files {
		data, err := readImageFile(file, h.maxBytes)
		if err != nil {
			h.logger.Debug("skipping uploaded file",
				slog.String("filename", file.Filename),
				slog.Any("error", err),
			)
			continue
		}
		uploads = append(uploads, service.Upload{Filename: file.Filename, Data: data})
	}

	frames, err := h.service.Import(c.Context(), uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(CatalogListResponse{Items: frames})
}
