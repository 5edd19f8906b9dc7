package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the guest-facing booking API under /api.
// confirmLimiter guards code guessing and may be nil.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, confirmLimiter gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		if confirmLimiter != nil {
			bookings.POST("/confirm", confirmLimiter, h.ConfirmBooking)
		} else {
			bookings.POST("/confirm", h.ConfirmBooking)
		}
		bookings.POST("/send-receipt", h.SendReceipt)
		bookings.GET("/availability/:roomId", h.CheckAvailability)
		bookings.GET("/:reference", h.GetBooking)
		bookings.GET("/:reference/qr", h.CheckInQR)
	}
}

// RegisterAdminRoutes expects a group already guarded by admin auth.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	bookings := admin.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/stats", h.BookingStats)
		bookings.PATCH("/:id/status", h.UpdateStatus)
	}
}
