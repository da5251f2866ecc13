package idea

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/internal/handler"
	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service/idea"
	"github.com/jwalitptl/ideabox-api/internal/service/notification"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

type Handler struct {
	ideas         idea.Service
	notifications notification.Service
}

func NewHandler(ideas idea.Service, notifications notification.Service) *Handler {
	return &Handler{ideas: ideas, notifications: notifications}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ideas := r.Group("/ideas")
	{
		ideas.POST("", h.Submit)
		ideas.GET("", h.List)
		ideas.GET("/stats/dashboard", h.Dashboard)
		ideas.GET("/export/excel", h.Export)

		ideas.GET("/notifications", h.ListNotifications)
		ideas.PATCH("/notifications/read-all", h.MarkAllNotificationsRead)
		ideas.PATCH("/notifications/:id/read", h.MarkNotificationRead)

		ideas.GET("/:id", h.Get)
		ideas.PATCH("/:id/status", h.UpdateStatus)
		ideas.PATCH("/:id/assign-reviewer", h.AssignReviewer)
		ideas.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.SubmitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	created, err := h.ideas.Submit(c.Request.Context(), handler.Caller(c), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.ideas.List(c.Request.Context(), handler.Caller(c), handler.IdeaFilter(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, page)
}

func (h *Handler) Get(c *gin.Context) {
	found, err := h.ideas.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	updated, err := h.ideas.UpdateStatus(c.Request.Context(), handler.Caller(c), c.Param("id"), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) AssignReviewer(c *gin.Context) {
	var req model.AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	updated, err := h.ideas.AssignReviewer(c.Request.Context(), handler.Caller(c), c.Param("id"), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.ideas.Delete(c.Request.Context(), handler.Caller(c), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Idea deleted successfully")
}

func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.ideas.Dashboard(c.Request.Context(), handler.Caller(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) Export(c *gin.Context) {
	body, err := h.ideas.Export(c.Request.Context(), handler.Caller(c), handler.IdeaFilter(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithXLSX(c, "ideas.xlsx", body)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.List(c.Request.Context(), handler.Caller(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Request.Context(), handler.Caller(c), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, n)
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	count, err := h.notifications.MarkAllRead(c.Request.Context(), handler.Caller(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"updatedCount": count})
}
