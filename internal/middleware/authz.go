package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifetrack/internal/authz"
)

// RequireRole lets the request through when the caller's role ranks at or
// above min. It must run after AuthMiddleware.
func RequireRole(min int) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleID := c.GetInt(CtxRoleID)
		if roleID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		if !authz.AtLeast(roleID, min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
