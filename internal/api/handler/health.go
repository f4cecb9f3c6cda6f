package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/database"
)

const version = "0.1.0"

type HealthHandler struct {
	db     database.Pinger
	logger *slog.Logger
}

// NewHealthHandler creates the health handler. db may be nil when the API
// runs without a database.
func NewHealthHandler(db database.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		OK:      true,
		Status:  "ok",
		Version: version,
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.db != nil {
		if err := database.HealthCheck(c.Context(), h.db); err != nil {
			h.logger.Warn("readiness check failed", slog.Any("error", err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				OK:     false,
				Status: "unavailable",
			})
		}
	}

	return c.JSON(HealthResponse{
		OK:     true,
		Status: "ready",
	})
}
