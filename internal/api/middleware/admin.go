package middleware

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

// AdminKeyHeader carries the shared admin secret.
const AdminKeyHeader = "X-Admin-Key"

// AdminKey guards catalog mutations with a shared secret. An empty key
// leaves the routes open, which is how local development runs.
func AdminKey(key string, logger *slog.Logger) fiber.Handler {
	if key == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		provided := c.Get(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			logger.Warn("rejected admin request",
				slog.String("path", c.Path()),
				slog.String("ip", c.IP()),
				slog.Bool("header_present", provided != ""),
			)
			return domain.ErrUnauthorized
		}
		return c.Next()
	}
}
