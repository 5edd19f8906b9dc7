package admin

import "github.com/gin-gonic/gin"

// RegisterAuthRoutes mounts /auth. loginLimiter may be nil.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup, auth, loginLimiter gin.HandlerFunc) {
	g := r.Group("/auth")
	if loginLimiter != nil {
		g.POST("/login", loginLimiter, h.Login)
	} else {
		g.POST("/login", h.Login)
	}
	g.GET("/me", auth, h.GetMe)
	g.PUT("/password", auth, h.ChangePassword)
	g.POST("/logout", auth, h.Logout)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/stats", h.Stats)
}
