package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeoutConfig struct {
	Duration time.Duration
	// UploadDuration applies to multipart requests; roster imports hash a
	// password per row and need longer. Zero falls back to Duration.
	UploadDuration time.Duration
}

// Timeout puts a deadline on the request context. Handlers are not
// interrupted; store calls fail once it passes and surface as 503.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := config.Duration
		if config.UploadDuration > 0 && strings.HasPrefix(c.ContentType(), "multipart/") {
			d = config.UploadDuration
		}
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
