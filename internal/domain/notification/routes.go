package notification

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes expects admin to already carry the admin auth middleware.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/live", h.LiveFeed)
}
