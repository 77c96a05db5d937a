package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retailflow-api/pkg/logger"
	"github.com/jhoicas/retailflow-api/pkg/metrics"
)

// RequestLogger registra cada petición con zerolog y la cuenta en Prometheus.
func RequestLogger(log *logger.Logger, m *metrics.EngineMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		m.IncHTTPRequest(c.Method(), c.Route().Path, strconv.Itoa(status))

		if log == nil {
			return err
		}
		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		if handlerErr, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(handlerErr)
		} else if err != nil {
			ev = ev.Err(err)
		}
		ev.Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
