package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staffkit/staff-admin/internal/api/dto"
	"github.com/staffkit/staff-admin/internal/observability"
	apperrors "github.com/staffkit/staff-admin/pkg/util/errorutil"
)

const headerRequestID = "X-Request-ID"

// RegisterMiddlewares attaches global middlewares. Order matters: the request
// logger wraps error handling so it sees the final status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestIDMiddleware())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(observability.RequestIDKey, id)
		c.Set(headerRequestID, id)
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders errors: plain text for form posts, JSON
// {"error": ...} for reads.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewStorageError("", nil)
			}
			if err != nil {
				status, code, message := describe(err)
				metrics.RecordError(c.Route().Path, c.Method(), code)
				if status >= fiber.StatusInternalServerError {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
				}
				c.Status(status)
				if c.Method() == fiber.MethodGet {
					_ = c.JSON(dto.ErrorResponse{Error: message})
				} else {
					c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
					_ = c.SendString(message)
				}
				err = nil
			}
		}()
		return c.Next()
	}
}

// describe maps err to status, code and the message shown to the caller.
func describe(err error) (int, string, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperrors.CodeInvalidInput
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			code = apperrors.CodeNotFound
		case fiberErr.Code >= fiber.StatusInternalServerError:
			code = apperrors.CodeStorage
		}
		return fiberErr.Code, code, fiberErr.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusServiceUnavailable, apperrors.CodeStorage, "La solicitud excedió el tiempo de espera."
	}
	domainErr := apperrors.ToDomainError(err)
	return domainErr.HTTPStatus, domainErr.Code, domainErr.Message
}
