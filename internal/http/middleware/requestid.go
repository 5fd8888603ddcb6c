package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID between client, service, and logs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where handlers find the request ID in Fiber locals.
	RequestIDLocalKey = "request_id"

	// maxRequestIDLen bounds caller-supplied IDs so log lines stay sane.
	maxRequestIDLen = 64
)

// RequestID tags every request with an ID. A caller-supplied X-Request-ID is
// honored when it is reasonably sized; otherwise a fresh UUID is issued. The
// ID is stored in Fiber locals for the logger and error payloads, and echoed
// back on the response.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
