package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

// ErrorHandler renders the last error attached with c.Error when nothing
// has been written yet. Middleware that rejects a request relies on it.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		httputil.RespondWithError(c, c.Errors.Last().Err)
	}
}
