package api

import (
	"fmt"
	"time"

	"github.com/fastroute/fastroute/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// NewLogger logs every request and records its latency against the matched route
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()
		latency := time.Since(startTime)

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()
		if fiberErr, ok := err.(*fiber.Error); ok {
			code = fiberErr.Code
		}

		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(route, fmt.Sprintf("%dxx", code/100)).Inc()
		metrics.HTTPDurationMs.WithLabelValues(route).Observe(float64(latency.Milliseconds()))

		ipAddress := c.IP()
		if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
			ipAddress = forwardedFor
		}

		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Str("ip", ipAddress).
			Str("latency", latency.String()).
			Logger()

		switch {
		case code >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg(msg)
		case code >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg(msg)
		default:
			requestLogger.Debug().Msg(msg)
		}

		return err
	}
}
