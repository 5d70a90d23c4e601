// Package appointment exposes scheduling endpoints, including the per-doctor
// booked-slot view used by the booking form.
package appointment

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	appointmentsvc "github.com/medicore/clinic-api/internal/service/appointment"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	appointments *appointmentsvc.Service
}

func NewHandler(appointments *appointmentsvc.Service) *Handler {
	return &Handler{appointments: appointments}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", middleware.RequireRoles(authz.ResourceAppointment, authz.ActionRead), h.List)
		appointments.GET("/schedule/:doctorId", middleware.RequireRoles(authz.ResourceAppointment, authz.ActionRead), h.Schedule)
		appointments.GET("/:id", middleware.RequireRoles(authz.ResourceAppointment, authz.ActionRead), h.Get)
		appointments.POST("", middleware.RequireRoles(authz.ResourceAppointment, authz.ActionCreate), h.Create)
		appointments.PUT("/:id", middleware.RequireRoles(authz.ResourceAppointment, authz.ActionUpdate), h.Update)
		appointments.DELETE("/:id", middleware.RequireRoles(authz.ResourceAppointment, authz.ActionDelete), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.AppointmentFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			middleware.Fail(c, apperror.Validation("invalid date, expected YYYY-MM-DD"))
			return
		}
		filter.Date = &date
	}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	appointments, pagination, err := h.appointments.List(c.Request.Context(), middleware.Caller(c), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, appointments, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	appointment, err := h.appointments.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, appointment)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	appointment, err := h.appointments.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, appointment)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	appointment, err := h.appointments.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, appointment)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Deleted(c, "Appointment deleted successfully.")
}

// Schedule returns a doctor's booked slots for the date query parameter,
// defaulting to today.
func (h *Handler) Schedule(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		dateStr = time.Now().Format("2006-01-02")
	}

	schedule, err := h.appointments.Schedule(c.Request.Context(), c.Param("doctorId"), dateStr)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, schedule)
}
