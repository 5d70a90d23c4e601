package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/auth"
	"github.com/medicore/clinic-api/pkg/tokenstore"
)

const contextCaller = "caller"

type AuthMiddleware struct {
	jwtSvc   auth.JWTService
	denylist tokenstore.Denylist
	accounts repository.AccountRepository
}

func NewAuthMiddleware(jwtSvc auth.JWTService, denylist tokenstore.Denylist,
	accounts repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSvc:   jwtSvc,
		denylist: denylist,
		accounts: accounts,
	}
}

// Authenticate verifies the bearer token and loads the caller. The account is
// re-fetched on every request so a deactivation or deletion takes effect
// before the token expires.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid authorization format"})
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := m.jwtSvc.Validate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid token"})
			c.Abort()
			return
		}

		revoked, err := m.denylist.IsRevoked(c.Request.Context(), token)
		if err != nil || revoked {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid token"})
			c.Abort()
			return
		}

		accountID, err := claims.AccountID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid token"})
			c.Abort()
			return
		}
		account, err := m.accounts.GetByID(c.Request.Context(), accountID)
		if err != nil || !account.IsActive {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Access denied. User account is deactivated."})
			c.Abort()
			return
		}

		c.Set(contextCaller, model.Caller{
			AccountID: account.ID,
			Email:     account.Email,
			Name:      account.Name,
			Role:      account.Role,
		})
		c.Next()
	}
}

// RequireRoles gates a route on the policy table for one resource action.
func RequireRoles(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller(c)
		if !authz.Allowed(caller.Role, resource, action) {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "you do not have permission to perform this action"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Caller returns the authenticated caller set by Authenticate.
func Caller(c *gin.Context) model.Caller {
	caller, _ := c.Get(contextCaller)
	if caller == nil {
		return model.Caller{}
	}
	return caller.(model.Caller)
}
