package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"payhub-backend/pkg/logger"
)

// Logger emits one structured access log line per request. Webhook
// deliveries and payment calls are correlated through the request id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		})
	}
}
