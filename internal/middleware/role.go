package middleware

import (
	"net/http"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user holds one of the given
// roles. Must run after the Authenticator.
func RequireRole(allowed ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		role := domain.UserRole(roleVal.(string))
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}

		response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// AdminOnly middleware requires the admin role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
