// Package prescription exposes the prescription bank endpoints.
package prescription

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	prescriptionsvc "github.com/medicore/clinic-api/internal/service/prescription"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	prescriptions *prescriptionsvc.Service
}

func NewHandler(prescriptions *prescriptionsvc.Service) *Handler {
	return &Handler{prescriptions: prescriptions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.GET("", middleware.RequireRoles(authz.ResourcePrescription, authz.ActionRead), h.List)
		prescriptions.GET("/:id", middleware.RequireRoles(authz.ResourcePrescription, authz.ActionRead), h.Get)
		prescriptions.POST("", middleware.RequireRoles(authz.ResourcePrescription, authz.ActionCreate), h.Create)
		prescriptions.PUT("/:id", middleware.RequireRoles(authz.ResourcePrescription, authz.ActionUpdate), h.Update)
		prescriptions.DELETE("/:id", middleware.RequireRoles(authz.ResourcePrescription, authz.ActionDelete), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.PrescriptionFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	prescriptions, pagination, err := h.prescriptions.List(c.Request.Context(), middleware.Caller(c), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, prescriptions, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	prescription, err := h.prescriptions.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, prescription)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	prescription, err := h.prescriptions.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, prescription)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	prescription, err := h.prescriptions.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, prescription)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.prescriptions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Deleted(c, "Prescription deleted successfully.")
}
