package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/pkg/response"
)

// RequireRole lets the request through when the authenticated admin holds
// one of the roles. It must run after the admin auth middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized to access this route")
			return
		}
		if !allowed[role] {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Role '"+role+"' is not authorized to access this route")
			return
		}
		c.Next()
	}
}
