package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler renders every handler error as {"error":{"code","message"}}.
// Server-side failures are logged with their cause; client errors are not.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr, known := asAppError(err)

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			attrs := []any{
				slog.String("request_id", requestID(c)),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("code", appErr.Code),
			}
			if known {
				attrs = append(attrs, slog.Any("error", appErr.Err))
				logger.Error("request failed", attrs...)
			} else {
				attrs = append(attrs, slog.Any("error", err))
				logger.Error("unhandled error", attrs...)
			}
		}

		return writeError(c, appErr)
	}
}

// asAppError maps err onto the API error model. Context cancellation and
// deadlines become REQUEST_CANCELED (499) and REQUEST_TIMEOUT (504); Fiber's
// own errors (unknown route, method not allowed, body too large) keep their
// status.
func asAppError(err error) (*domain.AppError, bool) {
	var appErr *domain.AppError
	if errors.As(domain.FromContext(err), &appErr) {
		return appErr, true
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &domain.AppError{
			Code:       "HTTP_ERROR",
			Message:    fiberErr.Message,
			StatusCode: fiberErr.Code,
		}, true
	}

	return domain.ErrInternal, false
}

func writeError(c *fiber.Ctx, appErr *domain.AppError) error {
	return c.Status(appErr.StatusCode).JSON(errorEnvelope{
		Error: errorPayload{Code: appErr.Code, Message: appErr.Message},
	})
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
