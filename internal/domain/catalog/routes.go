package catalog

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public catalog under /api.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/:id", h.GetRoom)
	}
}

// RegisterAdminRoutes expects a group already guarded by admin auth.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	rooms := admin.Group("/rooms")
	{
		rooms.GET("", h.ListAllRooms)
		rooms.POST("", h.CreateRoom)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
		rooms.PATCH("/:id/discount", h.UpdateDiscount)
	}
}
