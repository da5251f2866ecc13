package router

import (
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/ideabox-api/internal/handler/prometheus"
	"github.com/jwalitptl/ideabox-api/internal/middleware"
	"github.com/jwalitptl/ideabox-api/pkg/errors"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PublicHandler additionally exposes routes that need no token.
type PublicHandler interface {
	Handler
	RegisterPublicRoutes(*gin.RouterGroup)
}

// Handlers are the route groups mounted under /api/v1.
type Handlers struct {
	Auth     PublicHandler
	Idea     Handler
	Employee Handler
	Reviewer Handler
	User     Handler
	Health   Handler
	Metrics  *prometheus.Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	enforcer *casbin.Enforcer
	handlers Handlers
	config   RouterConfig
}

type RouterConfig struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
	Timeout    time.Duration
	// UploadTimeout bounds multipart requests.
	UploadTimeout time.Duration
	SizeLimit     middleware.SizeLimitConfig
	MetricsPath   string
}

func NewRouter(auth *middleware.AuthMiddleware, enforcer *casbin.Enforcer, handlers Handlers, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		enforcer: enforcer,
		handlers: handlers,
		config:   config,
	}

	// Core middlewares; order matters: the logger and metrics observe the
	// status written by ErrorHandler.
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)
	if handlers.Metrics != nil {
		engine.Use(handlers.Metrics.Middleware())
	}
	engine.Use(
		middleware.ErrorHandler(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}
	if config.Timeout > 0 || config.UploadTimeout > 0 {
		engine.Use(middleware.Timeout(middleware.TimeoutConfig{
			Duration:       config.Timeout,
			UploadDuration: config.UploadTimeout,
		}))
	}
	engine.Use(middleware.SizeLimit(config.SizeLimit))

	return r
}

func (r *Router) Setup() {
	if r.handlers.Metrics != nil {
		path := r.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, r.handlers.Metrics.Handler())
	}

	r.engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithError(c, errors.NewNotFound("Route", nil))
	})

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.handlers.Health.RegisterRoutes(api)
	r.handlers.Auth.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(
		r.auth.Authenticate(),
		middleware.Authorize(r.enforcer),
	)
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	for _, h := range []Handler{
		r.handlers.Auth,
		r.handlers.Idea,
		r.handlers.Employee,
		r.handlers.Reviewer,
		r.handlers.User,
	} {
		h.RegisterRoutes(rg)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
