// Package patient exposes the patient directory endpoints.
package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	patientsvc "github.com/medicore/clinic-api/internal/service/patient"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	patients *patientsvc.Service
}

func NewHandler(patients *patientsvc.Service) *Handler {
	return &Handler{patients: patients}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", middleware.RequireRoles(authz.ResourcePatient, authz.ActionRead), h.List)
		patients.GET("/:id", middleware.RequireRoles(authz.ResourcePatient, authz.ActionRead), h.Get)
		patients.POST("", middleware.RequireRoles(authz.ResourcePatient, authz.ActionCreate), h.Create)
		patients.PUT("/:id", middleware.RequireRoles(authz.ResourcePatient, authz.ActionUpdate), h.Update)
		patients.DELETE("/:id", middleware.RequireRoles(authz.ResourcePatient, authz.ActionDelete), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.PatientFilter{Search: c.Query("search")}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	patients, pagination, err := h.patients.List(c.Request.Context(), middleware.Caller(c), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, patients, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	detail, err := h.patients.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, detail)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	patient, err := h.patients.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, patient)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	patient, err := h.patients.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, patient)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.patients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Deleted(c, "Patient deleted successfully.")
}
