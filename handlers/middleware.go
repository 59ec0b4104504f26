package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestID assigns each request a UUID, echoed in the X-Request-ID
// response header. Handler logs reference it instead of any document
// content.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequestIDOf returns the request ID assigned by the RequestID middleware.
func RequestIDOf(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
