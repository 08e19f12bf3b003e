package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egi-ims/document-service/internal/identity"
)

// RequireRole aborts with 403 unless the verified claims grant role. An empty
// role lets every authenticated caller through. claim names an extra claim
// to search besides the standard role locations.
func RequireRole(role, claim string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role == "" {
			c.Next()
			return
		}
		claims := Claims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !identity.HasRole(claims, role, claim) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
