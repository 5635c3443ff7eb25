package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RBACMiddleware allows only users whose platform role is in allowedRoles.
// Event-level access (host/co-host/viewer) is resolved by the event service,
// not here; this gate is for platform-wide capabilities only.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role.RoleName == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	}
}
