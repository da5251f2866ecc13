package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/ideabox-api/internal/repository"
)

const (
	readinessTimeout = 2 * time.Second

	statusUp   = "UP"
	statusDown = "DOWN"
)

// Check is one named readiness dependency.
type Check struct {
	Name   string
	Pinger repository.Pinger
}

type Handler struct {
	checks []Check
}

func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusUp})
}

// ReadinessCheck pings every dependency. Failure reasons are logged, not
// returned.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status, code := statusUp, http.StatusOK
	results := make(gin.H, len(h.checks))
	for _, check := range h.checks {
		if err := check.Pinger.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("check", check.Name).Msg("readiness check failed")
			results[check.Name] = statusDown
			status, code = statusDown, http.StatusServiceUnavailable
			continue
		}
		results[check.Name] = statusUp
	}

	c.JSON(code, gin.H{"status": status, "checks": results})
}
