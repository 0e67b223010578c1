package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peakcomfort/backend/internal/utils"
)

const AdminEmailKey = "admin_email"

// AdminAuth guards the back-office routes with a bearer session token.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			abortUnauthorized(c, "Missing session token")
			return
		}
		claims, err := utils.ParseAdminToken(secret, token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired session token")
			return
		}
		c.Set(AdminEmailKey, claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
