package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
)

const (
	// HeaderRequestID is the HTTP header name for request ID
	HeaderRequestID = "X-Request-ID"
	// ContextKeyRequestID is the key used to store request ID in Fiber locals
	ContextKeyRequestID = "request_id"
)

// New creates a middleware that reuses an incoming X-Request-ID header or
// generates one. The id is echoed on the response, stored in the Fiber
// locals and attached to the user context for log.*WithContext.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = newID()
		}

		c.Locals(ContextKeyRequestID, requestID)
		c.SetUserContext(log.WithRequestID(c.UserContext(), requestID))
		c.Set(HeaderRequestID, requestID)

		return c.Next()
	}
}

// GetRequestID retrieves the request ID from Fiber context
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func newID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}
