package http

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akyravish/secure-user-service/internal/api/dto"
	"github.com/akyravish/secure-user-service/internal/observability"
	"github.com/akyravish/secure-user-service/internal/ratelimit"
	"github.com/akyravish/secure-user-service/internal/requestid"
	"github.com/akyravish/secure-user-service/internal/sanitize"
	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

// MiddlewareConfig bundles dependencies for the pipeline.
type MiddlewareConfig struct {
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Limiter    *ratelimit.Limiter
	Timeout    time.Duration
	Production bool
}

// RegisterMiddlewares composes the request pipeline. Order matters: the
// request ID must exist before anything logs, the error responder must wrap
// every stage that can fail, and sanitization must run before handlers read
// the body.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	app.Use(requestid.Middleware())
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(cfg.Logger, cfg.Metrics, cfg.Production))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(sanitizeMiddleware())
	if cfg.Limiter != nil {
		app.Use(cfg.Limiter.Handle)
	}
}

// requestTimeoutMiddleware arms the software side of the timeout guard: a
// per-request deadline on the user context. The connection side is the
// server's read/idle timeouts configured in main. Whichever fires first
// yields a single 408 and a closed connection; the deferred cancel releases
// the timer on every exit path.
func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			// downstream work has no cooperative cancel beyond this context;
			// drop the connection so it becomes irrelevant
			c.Context().SetConnectionClose()
			return apperrors.NewRequestTimeout()
		}
		return err
	}
}

// sanitizeMiddleware normalizes untrusted input in place: query string
// values and, for JSON requests, the decoded body. A body that cannot be
// walked rejects the whole request.
func sanitizeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		args := c.Context().QueryArgs()
		if args.Len() > 0 {
			type pair struct{ key, val string }
			pairs := make([]pair, 0, args.Len())
			args.VisitAll(func(k, v []byte) {
				pairs = append(pairs, pair{string(k), sanitize.CleanString(string(v))})
			})
			args.Reset()
			for _, p := range pairs {
				args.Add(p.key, p.val)
			}
		}

		body := c.Body()
		if len(body) > 0 && strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
			var payload any
			if err := json.Unmarshal(body, &payload); err != nil {
				return apperrors.NewInvalidInput("Invalid input detected")
			}
			cleaned, err := json.Marshal(sanitize.Clean(payload))
			if err != nil {
				return apperrors.NewInvalidInput("Invalid input detected")
			}
			c.Request().SetBodyRaw(cleaned)
		}

		return c.Next()
	}
}

// errorHandlingMiddleware is the terminal stage for failures: it classifies
// anything surfaced by later stages into the error taxonomy, logs a redacted
// view of the failure and request metadata, and writes the wire envelope.
// In production, 5xx messages are masked.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, production bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			appErr := apperrors.ToAppError(err)
			requestID := requestid.FromContext(c)
			if metrics != nil {
				metrics.RecordError(c.Path(), c.Method(), string(appErr.Code))
			}

			fields := []zap.Field{
				zap.String("code", string(appErr.Code)),
				zap.String("request_id", requestID),
				zap.Any("request", redactedRequestMeta(c)),
			}
			if appErr.HTTPStatus >= fiber.StatusInternalServerError {
				logger.Error("request failed", append(fields, zap.Error(appErr))...)
			} else {
				logger.Warn("request rejected", append(fields, zap.String("reason", appErr.Message))...)
			}

			message := appErr.Message
			if production && appErr.HTTPStatus >= fiber.StatusInternalServerError {
				message = "Internal Server Error"
			}

			c.Status(appErr.HTTPStatus)
			_ = c.JSON(dto.ErrorResponse{
				Error:     message,
				Code:      string(appErr.Code),
				RequestID: requestID,
			})
			err = nil
		}()
		return c.Next()
	}
}

// redactedRequestMeta captures loggable request metadata with sensitive
// fields replaced, sharing the sanitizer's depth cap.
func redactedRequestMeta(c *fiber.Ctx) any {
	headers := make(map[string]any)
	for k, vals := range c.GetReqHeaders() {
		headers[k] = strings.Join(vals, ",")
	}
	query := make(map[string]any)
	for k, v := range c.Queries() {
		query[k] = v
	}
	return sanitize.Redact(map[string]any{
		"method":  c.Method(),
		"path":    c.Path(),
		"query":   query,
		"headers": headers,
	})
}
