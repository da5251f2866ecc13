package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows the given origins; none means any origin.
// Content-Disposition is exposed so the dashboard can name spreadsheet
// downloads.
func DefaultCORSConfig(origins ...string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowHeaders:     []string{"Authorization", "Content-Type", HeaderXRequestID},
		ExposeHeaders:    []string{"Content-Disposition", HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

type corsPolicy struct {
	any       bool
	origins   map[string]struct{}
	headers   map[string]string
	preflight map[string]string
	creds     bool
}

func newCORSPolicy(config CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins: make(map[string]struct{}, len(config.AllowOrigins)),
		creds:   config.AllowCredentials,
		headers: map[string]string{
			"Access-Control-Expose-Headers": strings.Join(config.ExposeHeaders, ", "),
		},
		preflight: map[string]string{
			"Access-Control-Allow-Methods": strings.Join(config.AllowMethods, ", "),
			"Access-Control-Allow-Headers": strings.Join(config.AllowHeaders, ", "),
			"Access-Control-Max-Age":       strconv.Itoa(config.MaxAge),
		},
	}
	for _, o := range config.AllowOrigins {
		if o == "*" {
			p.any = true
			continue
		}
		p.origins[strings.TrimRight(o, "/")] = struct{}{}
	}
	return p
}

// allowed returns the Access-Control-Allow-Origin value for origin, or ""
// when the origin is not allowed. Credentialed responses must echo the
// origin instead of "*".
func (p *corsPolicy) allowed(origin string) string {
	if origin == "" {
		return ""
	}
	if _, ok := p.origins[origin]; ok {
		return origin
	}
	if p.any {
		if p.creds {
			return origin
		}
		return "*"
	}
	return ""
}

// CORS answers preflight requests itself. Disallowed origins get no CORS
// headers and their preflights are refused.
func CORS(config CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(config)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""

		allow := policy.allowed(origin)
		if allow == "" {
			if preflight {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allow)
		h.Add("Vary", "Origin")
		if policy.creds {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		for k, v := range policy.headers {
			h.Set(k, v)
		}

		if preflight {
			for k, v := range policy.preflight {
				h.Set(k, v)
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
