package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/internal/handler"
	"github.com/jwalitptl/ideabox-api/internal/service/auth"
	"github.com/jwalitptl/ideabox-api/pkg/errors"
)

type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the bearer token and stores the active principal
// on the request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, errors.Unauthorized("Access token required", nil))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abort(c, errors.Unauthorized("Invalid authorization format", nil))
			return
		}

		principal, claims, err := m.authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abort(c, err)
			return
		}

		handler.SetPrincipal(c, principal, claims)
		c.Next()
	}
}

// abort stops the chain and leaves rendering to ErrorHandler.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
