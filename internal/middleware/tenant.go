package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TenantGuard ensures a tenant ID is present in the context.
// It relies on AuthMiddleware having already run.
func TenantGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetTenantID(c); err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "tenant context required")
			return
		}
		c.Next()
	}
}
