package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resort/internal/pkg/response"
)

// AdminJWTAuth accepts "Authorization: Bearer <token>" or a token query
// parameter (browsers cannot set headers on websocket upgrades).
func AdminJWTAuth(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized to access this route")
			return
		}

		a, err := service.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized to access this route")
			return
		}

		c.Set("admin_id", a.ID.String())
		c.Set("role", a.Role)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
