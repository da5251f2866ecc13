package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/ideabox-api/internal/handler"
	apperrors "github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

// Recovery turns a panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			event := log.Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("method", c.Request.Method).
				Str("route", c.FullPath())
			if p := handler.Principal(c); p != nil {
				event = event.Str("employee_number", p.EmployeeNumber)
			}
			event.Msg("panic while handling request")

			if !c.Writer.Written() {
				httputil.RespondWithError(c, apperrors.NewInternal(fmt.Errorf("panic: %v", rec)))
			}
			c.Abort()
		}()
		c.Next()
	}
}
