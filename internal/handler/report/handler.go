// Package report exposes the read-only analytics endpoints, each behind its
// own role gate.
package report

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	reportsvc "github.com/medicore/clinic-api/internal/service/report"
)

type Handler struct {
	reports *reportsvc.Service
}

func NewHandler(reports *reportsvc.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/overview", middleware.RequireRoles(authz.ResourceReportOverview, authz.ActionRead), h.Overview)
		reports.GET("/patients", middleware.RequireRoles(authz.ResourceReportPatients, authz.ActionRead), h.Patients)
		reports.GET("/appointments", middleware.RequireRoles(authz.ResourceReportAppointments, authz.ActionRead), h.Appointments)
		reports.GET("/revenue", middleware.RequireRoles(authz.ResourceReportRevenue, authz.ActionRead), h.Revenue)
		reports.GET("/metrics", middleware.RequireRoles(authz.ResourceReportMetrics, authz.ActionRead), h.Metrics)
	}
}

func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.reports.Overview(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, overview)
}

func (h *Handler) Patients(c *gin.Context) {
	stats, err := h.reports.Patients(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, stats)
}

func (h *Handler) Appointments(c *gin.Context) {
	stats, err := h.reports.Appointments(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, stats)
}

func (h *Handler) Revenue(c *gin.Context) {
	stats, err := h.reports.Revenue(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, stats)
}

func (h *Handler) Metrics(c *gin.Context) {
	metrics, err := h.reports.Metrics(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, metrics)
}
