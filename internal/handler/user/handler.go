package user

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/internal/handler"
	"github.com/jwalitptl/ideabox-api/internal/handler/employee"
	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service/user"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

type Handler struct {
	service user.Service
}

func NewHandler(service user.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.Leaderboard)
		users.POST("/bulk-upsert", h.BulkUpsert)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Leaderboard(c *gin.Context) {
	page, err := h.service.Leaderboard(c.Request.Context(), handler.PrincipalFilter(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, employee.PageResponse("users", page))
}

func (h *Handler) BulkUpsert(c *gin.Context) {
	var req model.BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	result, err := h.service.BulkUpsert(c.Request.Context(), req.Users)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePrincipalRequest
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

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "User deleted successfully")
}
