// Package lab exposes lab result endpoints. There is no delete route; lab
// records are part of the permanent clinical history.
package lab

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	labsvc "github.com/medicore/clinic-api/internal/service/lab"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	labs *labsvc.Service
}

func NewHandler(labs *labsvc.Service) *Handler {
	return &Handler{labs: labs}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	labs := r.Group("/lab-results")
	{
		labs.GET("", middleware.RequireRoles(authz.ResourceLabResult, authz.ActionRead), h.List)
		labs.GET("/:id", middleware.RequireRoles(authz.ResourceLabResult, authz.ActionRead), h.Get)
		labs.POST("", middleware.RequireRoles(authz.ResourceLabResult, authz.ActionCreate), h.Create)
		labs.PUT("/:id", middleware.RequireRoles(authz.ResourceLabResult, authz.ActionUpdate), h.Update)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.LabResultFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	results, pagination, err := h.labs.List(c.Request.Context(), middleware.Caller(c), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, results, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	result, err := h.labs.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.labs.Create(c.Request.Context(), middleware.Caller(c), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, result)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateLabResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.labs.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, result)
}
