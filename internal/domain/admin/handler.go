package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/pkg/response"
)

type Handler struct {
	service   *Service
	dashboard *DashboardService
}

func NewHandler(service *Service, dashboard *DashboardService) *Handler {
	return &Handler{service: service, dashboard: dashboard}
}

// Login godoc
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "Admin and token"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 401 {object} map[string]interface{} "Invalid credentials or inactive account"
// @Failure 429 {object} map[string]interface{} "Too many attempts"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Please provide email and password")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// GetMe godoc
// @Summary Current admin
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Profile"
// @Failure 401 {object} map[string]interface{} "Not authorized"
// @Failure 404 {object} map[string]interface{} "Admin not found"
// @Router /api/auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	me, err := h.service.GetMe(c.Request.Context(), c.GetString("admin_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

// ChangePassword change password
// @Summary Change password
// @Description Checks the current password, stores the new one and returns a fresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} map[string]interface{} "New token"
// @Failure 400 {object} map[string]interface{} "Validation failed or wrong password"
// @Failure 401 {object} map[string]interface{} "Not authorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/auth/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Please provide current and new password")
		return
	}

	token, err := h.service.ChangePassword(c.Request.Context(), c.GetString("admin_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Password updated successfully", gin.H{"token": token})
}

// Logout POST /api/auth/logout. Tokens are stateless; the client drops it.
func (h *Handler) Logout(c *gin.Context) {
	log.Printf("admin_logout admin_id=%s", c.GetString("admin_id"))
	response.SuccessWithMessage(c, http.StatusOK, "Logged out successfully", nil)
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags Admin - Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Room and booking counters"
// @Failure 401 {object} map[string]interface{} "Not authorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	d, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
	case errors.Is(err, ErrInactive):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account is deactivated. Please contact support.")
	case errors.Is(err, ErrWrongPassword):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Current password is incorrect")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Admin not found")
	default:
		log.Printf("request_error type=internal path=%s err=%v", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
