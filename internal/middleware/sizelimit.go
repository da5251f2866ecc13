package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

// SizeLimitConfig caps request bodies. Spreadsheet uploads arrive as
// multipart and get their own, larger cap. Header size is left to
// http.Server.MaxHeaderBytes.
type SizeLimitConfig struct {
	MaxBodySize   int64
	MaxUploadSize int64
}

func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		MaxBodySize:   1 << 20,
		MaxUploadSize: 10 << 20,
	}
}

func (c SizeLimitConfig) limitFor(contentType string) int64 {
	def := DefaultSizeLimitConfig()
	if strings.HasPrefix(contentType, "multipart/") {
		if c.MaxUploadSize > 0 {
			return c.MaxUploadSize
		}
		return def.MaxUploadSize
	}
	if c.MaxBodySize > 0 {
		return c.MaxBodySize
	}
	return def.MaxBodySize
}

// SizeLimit rejects a declared oversize body up front and wraps the body so
// that chunked requests are cut off at the same limit.
func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := config.limitFor(c.ContentType())
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.Response{
				Error: &httputil.Error{
					Code:    http.StatusRequestEntityTooLarge,
					Message: fmt.Sprintf("Request body exceeds %d bytes", limit),
					TraceID: c.GetString(ContextRequestID),
				},
			})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
