package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/backend/models"
)

// RequireRoles gates a route group to the given roles. A user with a
// different role gets 403 plus a redirect to their own dashboard, never a
// dead end.
func RequireRoles(allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not determined", "redirect": "/login"})
			c.Abort()
			return
		}

		role := models.UserRole(roleValue.(string))
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":    "You do not have access to this resource",
			"redirect": role.DashboardPath(),
		})
		c.Abort()
	}
}
