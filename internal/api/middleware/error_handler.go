package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Error: ErrorBody{Code: "HTTP_ERROR", Message: fiberErr.Message},
			})
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			body := ErrorBody{Code: appErr.Code, Message: appErr.Message}
			if appErr.StatusCode >= 500 {
				logger.Error("request failed",
					slog.String("code", appErr.Code),
					slog.String("path", c.Path()),
					slog.Any("error", err),
				)
			} else if appErr.Err != nil {
				// client errors carry their cause, e.g. which field failed validation
				body.Details = appErr.Err.Error()
			}

			return c.Status(appErr.StatusCode).JSON(ErrorResponse{Error: body})
		}

		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("request timed out", slog.String("path", c.Path()))
			return c.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse{
				Error: ErrorBody{Code: "TIMEOUT", Message: "The request took too long"},
			})
		}

		logger.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: ErrorBody{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"},
		})
	}
}
