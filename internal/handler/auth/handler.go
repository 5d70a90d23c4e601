// Package auth exposes login, logout and the current-caller endpoint.
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/handler"
	"github.com/medicore/clinic-api/internal/middleware"
	authsvc "github.com/medicore/clinic-api/internal/service/auth"
	usersvc "github.com/medicore/clinic-api/internal/service/user"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Handler struct {
	auth  *authsvc.Service
	users *usersvc.Service
}

func NewHandler(auth *authsvc.Service, users *usersvc.Service) *Handler {
	return &Handler{auth: auth, users: users}
}

// RegisterRoutes wires the unauthenticated endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes wires the endpoints behind authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperror.Validation("email and password are required"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, result)
}

func (h *Handler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.Deleted(c, "Logged out successfully.")
}

func (h *Handler) Me(c *gin.Context) {
	detail, err := h.users.Me(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	handler.OK(c, detail)
}
