package reviewer

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service/reviewer"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

type Handler struct {
	service reviewer.Service
}

func NewHandler(service reviewer.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reviewers := r.Group("/reviewers")
	{
		reviewers.GET("", h.List)
		reviewers.POST("", h.Create)
		reviewers.PUT("/:id", h.Update)
		reviewers.PATCH("/:id/deactivate", h.Deactivate)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Reviewer deactivated successfully")
}
