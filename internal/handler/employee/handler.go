package employee

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/internal/handler"
	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/service/employee"
	"github.com/jwalitptl/ideabox-api/pkg/httputil"
)

type Handler struct {
	service   employee.Service
	uploadDir string
}

func NewHandler(service employee.Service, uploadDir string) *Handler {
	return &Handler{service: service, uploadDir: uploadDir}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	employees := r.Group("/employees")
	{
		employees.GET("", h.List)
		employees.POST("", h.Create)
		employees.GET("/export/excel", h.Export)
		employees.GET("/bulk-delete-template", h.BulkDeleteTemplate)
		employees.GET("/bulk-insert-template", h.BulkInsertTemplate)
		employees.POST("/bulk-import", h.Import)
		employees.POST("/bulk-delete", h.BulkDelete)

		employees.GET("/by-employee-number/:employeeNumber", h.GetByEmployeeNumber)
		employees.PUT("/by-employee-number/:employeeNumber", h.UpdateByEmployeeNumber)

		employees.GET("/:id", h.Get)
		employees.PUT("/:id", h.Update)
		employees.PATCH("/:id/credits", h.UpdateCredits)
		employees.DELETE("/:id", h.Delete)
	}
}

// PageResponse shapes a principal page under the given collection key.
func PageResponse(key string, page *model.PrincipalPage) gin.H {
	principals := page.Principals
	if principals == nil {
		principals = []*model.Principal{}
	}
	return gin.H{
		key:           principals,
		"total":       page.Total,
		"departments": page.Departments,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	}
}

func (h *Handler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), handler.PrincipalFilter(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, PageResponse("employees", page))
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) GetByEmployeeNumber(c *gin.Context) {
	p, err := h.service.GetByEmployeeNumber(c.Request.Context(), c.Param("employeeNumber"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePrincipalRequest
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

func (h *Handler) UpdateByEmployeeNumber(c *gin.Context) {
	var req model.UpdatePrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	p, err := h.service.UpdateByEmployeeNumber(c.Request.Context(), c.Param("employeeNumber"), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) UpdateCredits(c *gin.Context) {
	var req model.UpdateCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, httputil.BindError(err))
		return
	}

	p, err := h.service.UpdateCredits(c.Request.Context(), handler.Caller(c), c.Param("id"), req)
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
	httputil.RespondWithMessage(c, "Employee deleted successfully")
}

func (h *Handler) Import(c *gin.Context) {
	path, err := handler.SaveUpload(c, h.uploadDir)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	report, err := h.service.Import(c.Request.Context(), path)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}

func (h *Handler) BulkDelete(c *gin.Context) {
	path, err := handler.SaveUpload(c, h.uploadDir)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	report, err := h.service.BulkDelete(c.Request.Context(), path)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}

func (h *Handler) Export(c *gin.Context) {
	body, err := h.service.Export(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithXLSX(c, "employees.xlsx", body)
}

func (h *Handler) BulkDeleteTemplate(c *gin.Context) {
	body, err := h.service.BulkDeleteTemplate()
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithXLSX(c, "bulk_delete_template.xlsx", body)
}

func (h *Handler) BulkInsertTemplate(c *gin.Context) {
	body, err := h.service.BulkInsertTemplate()
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithXLSX(c, "bulk_insert_template.xlsx", body)
}
