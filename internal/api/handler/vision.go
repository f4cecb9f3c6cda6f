package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

var errMissingDataURL = errors.New("imageDataUrl is required")

// AnalyzeFrameRequest body for POST /api/vision/frame
type AnalyzeFrameRequest struct {
	ImageDataURL string `json:"imageDataUrl" validate:"required,startswith=data:"`
}

type VisionHandler struct {
	service  CatalogService
	validate *validator.Validate
}

func NewVisionHandler(svc CatalogService, validate *validator.Validate) *VisionHandler {
	return &VisionHandler{service: svc, validate: validate}
}

// AnalyzeFrame POST /api/vision/frame
func (h *VisionHandler) AnalyzeFrame(c *fiber.Ctx) error {
	var req AnalyzeFrameRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.ImageDataURL == "" {
		return domain.ErrBadRequest.WithError(errMissingDataURL)
	}
	if err := validateStruct(h.validate, req); err != nil {
		return err
	}

	analysis, err := h.service.AnalyzeDataURL(c.Context(), req.ImageDataURL)
	if err != nil {
		return err
	}
	return c.JSON(analysis)
}
