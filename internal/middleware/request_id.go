// Package middleware provides HTTP middleware components for the navigation service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/nav-service/internal/logger"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client supplied IDs, which are stored with refresh events.
const maxRequestIDLength = 128

// RequestID tags each request with an ID. A client supplied X-Request-ID is
// kept when it is short printable ASCII, otherwise a UUID v4 replaces it.
// The ID travels in the request context, so the content service logs and
// journals it without depending on gin.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID RequestID assigned to the request, or "".
func GetRequestID(c *gin.Context) string {
	return logger.RequestIDFromContext(c.Request.Context())
}
