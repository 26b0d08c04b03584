package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kpdgayao/vivita-inventory/metrics"
)

// RequestLogger writes one zap entry per request and records its latency.
// statusFor gives the status the error handler will answer with.
func RequestLogger(log *zap.Logger, statusFor func(error) int) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil && statusFor != nil {
			status = statusFor(err)
		}
		route := c.Route().Path
		metrics.ObserveHTTP(c.Method(), route, strconv.Itoa(status), start)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", rid))
		}
		switch {
		case err != nil:
			log.Warn("request failed", append(fields, zap.Error(err))...)
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		default:
			log.Info("request", fields...)
		}
		return err
	}
}
