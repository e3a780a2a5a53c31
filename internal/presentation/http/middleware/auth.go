package middleware

import (
	"net/http"
	"strings"

	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

// AdminAuth guards the write and ops endpoints with a bearer token.
func AdminAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(header, "Bearer "), jwtSecret)
		if err != nil || !security.IsAdminClaims(claims) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
