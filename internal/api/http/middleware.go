package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketbot/internal/auth"
	"github.com/spec-kit/ticketbot/internal/observability"
	apperrors "github.com/spec-kit/ticketbot/pkg/util/errorutil"
)

// HeaderRequestID carries the per-request correlation id.
const HeaderRequestID = "X-Request-ID"

// RegisterMiddlewares attaches the admin API middleware chain: request ids,
// access logging, deadline, then error rendering. The access log wraps the
// error renderer so it records the status the client actually receives.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestIDMiddleware())
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(HeaderRequestID, id)
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

// errorHandlingMiddleware renders any handler error as
// {"error": {"code", "message", "details"}}.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := apperrors.ToDomainError(err)
			metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
			logFailure(logger, c, domainErr)

			body := fiber.Map{
				"code":    domainErr.Code,
				"message": domainErr.Message,
			}
			if len(domainErr.Details) > 0 {
				body["details"] = domainErr.Details
			}
			err = c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
		}()
		return c.Next()
	}
}

func logFailure(logger *zap.Logger, c *fiber.Ctx, domainErr *apperrors.DomainError) {
	fields := []zap.Field{
		zap.String("code", domainErr.Code),
		zap.String("path", c.Path()),
		zap.String("request_id", string(c.Response().Header.Peek(HeaderRequestID))),
		zap.Error(domainErr),
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		fields = append(fields, zap.String("subject", principal.Subject))
	}
	switch {
	case domainErr.Code == "CORRUPT_RECORD":
		fields = append(fields, zap.Any("details", domainErr.Details))
		logger.Error("stored record failed to decode", fields...)
	case domainErr.HTTPStatus == fiber.StatusBadGateway:
		logger.Warn("upstream request failed", fields...)
	case domainErr.HTTPStatus >= fiber.StatusInternalServerError:
		logger.Error("request failed", fields...)
	}
}
