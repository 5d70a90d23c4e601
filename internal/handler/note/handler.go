// Package note exposes medical note endpoints. Notes are never deleted.
package note

import (
	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	notesvc "github.com/medicore/clinic-api/internal/service/note"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	notes *notesvc.Service
}

func NewHandler(notes *notesvc.Service) *Handler {
	return &Handler{notes: notes}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notes := r.Group("/medical-notes")
	{
		notes.GET("", middleware.RequireRoles(authz.ResourceMedicalNote, authz.ActionRead), h.List)
		notes.GET("/:id", middleware.RequireRoles(authz.ResourceMedicalNote, authz.ActionRead), h.Get)
		notes.POST("", middleware.RequireRoles(authz.ResourceMedicalNote, authz.ActionCreate), h.Create)
		notes.PUT("/:id", middleware.RequireRoles(authz.ResourceMedicalNote, authz.ActionUpdate), h.Update)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.MedicalNoteFilter{
		Search: c.Query("search"),
		Type:   c.Query("type"),
	}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	notes, pagination, err := h.notes.List(c.Request.Context(), middleware.Caller(c), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, notes, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), middleware.Caller(c), c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, note)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateMedicalNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.Caller(c), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, note)
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateMedicalNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	note, err := h.notes.Update(c.Request.Context(), middleware.Caller(c), c.Param("id"), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, note)
}
