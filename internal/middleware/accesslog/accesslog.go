package accesslog

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
)

// New logs one line per request once the downstream handlers have finished.
// It must run after requestid so the line carries the request id.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil && status < fiber.StatusBadRequest {
			status = fiber.StatusInternalServerError
		}

		ctx := c.UserContext()
		if status >= fiber.StatusInternalServerError {
			log.WarnWithContext(ctx, "%s %s -> %d (%s)", c.Method(), c.OriginalURL(), status, time.Since(start))
		} else {
			log.InfoWithContext(ctx, "%s %s -> %d (%s)", c.Method(), c.OriginalURL(), status, time.Since(start))
		}
		return err
	}
}
