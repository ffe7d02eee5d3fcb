// file: internal/server/middleware/requestid.go
// version: 1.0.0
// guid: 4e1c7a92-3b5d-4f08-9a6e-2d8c0b7f1e35

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/jdfalk/asset-store/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const contextRequestIDKey = "request_id"

// RequestID reuses a caller-supplied id or mints a ULID, echoes it in the
// response, and stores it on the request context for downstream logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		c.Set(contextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(contextRequestIDKey)
}
