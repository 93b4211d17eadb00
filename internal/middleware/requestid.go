package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id so log lines from one call
// can be correlated. An id supplied by the caller is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set("requestID", id)
		c.Writer.Header().Set(requestIDHeader, id)

		c.Next()
	}
}
