package middleware

import (
	"net/http"
	"strings"

	"github.com/aanyashri/hrmsbackend-users/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route to the given roles (case-insensitive). It assumes
// AuthMiddleware already ran and populated "role".
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetString("role")))
		if _, ok := allowed[role]; !ok {
			response.Error(c, http.StatusForbidden, "You do not have permission to access this resource")
			c.Abort()
			return
		}
		c.Next()
	}
}
