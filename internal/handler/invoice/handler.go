// Package invoice exposes billing endpoints, including the status summary
// used by the billing dashboard.
package invoice

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	invoicesvc "github.com/medicore/clinic-api/internal/service/invoice"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	invoices *invoicesvc.Service
}

func NewHandler(invoices *invoicesvc.Service) *Handler {
	return &Handler{invoices: invoices}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.GET("", middleware.RequireRoles(authz.ResourceInvoice, authz.ActionRead), h.List)
		invoices.GET("/summary", middleware.RequireRoles(authz.ResourceInvoice, authz.ActionCreate), h.Summary)
		invoices.GET("/:id", middleware.RequireRoles(authz.ResourceInvoice, authz.ActionRead), h.Get)
		invoices.POST("", middleware.RequireRoles(authz.ResourceInvoice, authz.ActionCreate), h.Create)
		invoices.PUT("/:id", middleware.RequireRoles(authz.ResourceInvoice, authz.ActionUpdate), h.Update)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.InvoiceFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	invoices, pagination, err := h.invoices.List(c.Request.Context(), middleware.Caller(c), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, invoices, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, invoice)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, invoice)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	invoice, err := h.invoices.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, invoice)
}

// Summary is restricted to the billing roles that manage invoices.
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.invoices.Summary(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, summary)
}
