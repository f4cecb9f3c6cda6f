package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

// Recover turns a panic in a handler into a 500 with the standard error body.
func Recover(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestID, _ := c.Locals("requestid").(string)
			logger.Error("panic in handler",
				slog.Any("panic", r),
				slog.String("request_id", requestID),
				slog.String("route", c.Method()+" "+c.Path()),
				slog.String("stack", string(debug.Stack())),
			)

			err = c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: ErrorBody{Code: domain.ErrInternal.Code, Message: domain.ErrInternal.Message},
			})
		}()
		return c.Next()
	}
}
