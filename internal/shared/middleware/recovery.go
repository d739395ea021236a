package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"payhub-backend/internal/shared/response"
	"payhub-backend/pkg/logger"
)

// Recovery converts panics into a 500 envelope. A panicking webhook
// handler must still answer the gateway, not drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", fmt.Errorf("%v", r), map[string]interface{}{
					"request_id": c.GetString("request_id"),
					"path":       c.Request.URL.Path,
				})

				response.InternalServerError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
