// Package user exposes account administration, super_admin only.
package user

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	usersvc "github.com/medicore/clinic-api/internal/service/user"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	users *usersvc.Service
}

func NewHandler(users *usersvc.Service) *Handler {
	return &Handler{users: users}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", middleware.RequireRoles(authz.ResourceUser, authz.ActionRead), h.List)
		users.GET("/:id", middleware.RequireRoles(authz.ResourceUser, authz.ActionRead), h.Get)
		users.POST("", middleware.RequireRoles(authz.ResourceUser, authz.ActionCreate), h.Create)
		users.PUT("/:id", middleware.RequireRoles(authz.ResourceUser, authz.ActionUpdate), h.Update)
		users.DELETE("/:id", middleware.RequireRoles(authz.ResourceUser, authz.ActionDelete), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	filter := &model.AccountFilter{
		Search: c.Query("search"),
		Role:   model.Role(c.Query("role")),
	}
	if err := c.ShouldBindQuery(&filter.ListOptions); err != nil {
		middleware.Fail(c, apperror.Validation("invalid pagination parameters"))
		return
	}

	accounts, pagination, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.List(c, accounts, pagination)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperror.Validation("invalid user id"))
		return
	}

	detail, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, detail)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	detail, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Created(c, detail)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperror.Validation("invalid user id"))
		return
	}
	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation(err.Error()))
		return
	}

	detail, err := h.users.Update(c.Request.Context(), id, &req)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, detail)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.Fail(c, apperror.Validation("invalid user id"))
		return
	}

	if err := h.users.Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Deleted(c, "User deleted successfully.")
}
