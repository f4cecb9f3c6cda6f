package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
	"github.com/nidhi-davra/ai-glass-suggestor/internal/service"
)

// Response headers describing where the overlay was drawn.
const (
	HeaderOverlayCenterX  = "X-Overlay-Center-X"
	HeaderOverlayCenterY  = "X-Overlay-Center-Y"
	HeaderOverlayRotation = "X-Overlay-Rotation"
	HeaderOverlayWidth    = "X-Overlay-Width"
	HeaderOverlayHeight   = "X-Overlay-Height"
	HeaderFrameID         = "X-Frame-ID"
)

type TryOnService interface {
	Analyze(ctx context.Context, req service.AnalyzeRequest) (*service.AnalyzeResult, error)
	Render(ctx context.Context, image []byte, frameID string) (*service.RenderResult, error)
}

// AnalyzeForm holds the non-file fields of POST /api/tryon/analyze.
type AnalyzeForm struct {
	Shape           string `form:"shape" validate:"omitempty,oneof=round square oval oblong heart diamond"`
	OnlyRecommended bool   `form:"only_recommended"`
	SelectedID      string `form:"selected_id" validate:"max=128"`
}

// RenderForm holds the non-file fields of POST /api/tryon/render.
type RenderForm struct {
	FrameID string `form:"frame_id" validate:"required,max=128"`
}

type TryOnHandler struct {
	service  TryOnService
	validate *validator.Validate
	maxBytes int64
}

func NewTryOnHandler(svc TryOnService, validate *validator.Validate, maxBytes int64) *TryOnHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &TryOnHandler{service: svc, validate: validate, maxBytes: maxBytes}
}

// Analyze POST /api/tryon/analyze
func (h *TryOnHandler) Analyze(c *fiber.Ctx) error {
	var form AnalyzeForm
	if err := c.BodyParser(&form); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	form.Shape = strings.ToLower(strings.TrimSpace(form.Shape))
	if err := validateStruct(h.validate, form); err != nil {
		return err
	}

	image, err := extractAndValidateImage(c, h.maxBytes)
	if err != nil {
		return err
	}

	result, err := h.service.Analyze(c.Context(), service.AnalyzeRequest{
		Image:           image,
		Shape:           form.Shape,
		OnlyRecommended: form.OnlyRecommended,
		SelectedID:      form.SelectedID,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Render POST /api/tryon/render
func (h *TryOnHandler) Render(c *fiber.Ctx) error {
	var form RenderForm
	if err := c.BodyParser(&form); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if err := validateStruct(h.validate, form); err != nil {
		return err
	}

	image, err := extractAndValidateImage(c, h.maxBytes)
	if err != nil {
		return err
	}

	result, err := h.service.Render(c.Context(), image, form.FrameID)
	if err != nil {
		return err
	}
	if len(result.PNG) == 0 {
		return domain.ErrInternal.WithError(errors.New("empty composite"))
	}

	c.Set(HeaderFrameID, result.Frame.ID)
	if p := result.Placement; p != nil {
		c.Set(HeaderOverlayCenterX, formatFloat(p.CenterX))
		c.Set(HeaderOverlayCenterY, formatFloat(p.CenterY))
		c.Set(HeaderOverlayRotation, formatFloat(p.Rotation))
		c.Set(HeaderOverlayWidth, formatFloat(p.Width))
		c.Set(HeaderOverlayHeight, formatFloat(p.Height))
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(result.PNG)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
