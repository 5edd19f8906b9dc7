package booking

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/now"

	"resort/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- PUBLIC ---------- */

// CreateBooking create booking
// @Summary Create booking
// @Description Creates an awaiting-payment booking with a six hour deadline and emails the operator the verification code.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Booking data"
// @Success 201 {object} map[string]interface{} "Reference, nights, total and deadline"
// @Failure 400 {object} map[string]interface{} "Validation failed or room not available"
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	msg := fmt.Sprintf("Booking created successfully. Please complete payment within %g hours.", h.service.opts.Expiration.Hours())
	response.SuccessWithMessage(c, http.StatusCreated, msg, res)
}

// ConfirmBooking confirm booking
// @Summary Confirm booking
// @Description Confirms a booking with its verification code before the deadline and emails the guest.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body ConfirmRequest true "Reference and code"
// @Success 200 {object} map[string]interface{} "Confirmed booking"
// @Failure 400 {object} map[string]interface{} "Invalid code, expired, cancelled or already confirmed"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 429 {object} map[string]interface{} "Too many attempts"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/bookings/confirm [post]
func (h *Handler) ConfirmBooking(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Confirm(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Booking confirmed successfully", res)
}

// CheckAvailability godoc
// @Summary Check room availability
// @Tags Bookings
// @Accept json
// @Produce json
// @Param roomId path integer true "Room ID"
// @Param checkIn query string true "Check-in date" example(2026-04-01)
// @Param checkOut query string true "Check-out date" example(2026-04-03)
// @Success 200 {object} map[string]interface{} "Availability"
// @Failure 400 {object} map[string]interface{} "Invalid dates"
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/bookings/availability/{roomId} [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("roomId"), 10, 64)
	if err != nil || roomID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return
	}

	inRaw, outRaw := c.Query("checkIn"), c.Query("checkOut")
	if inRaw == "" || outRaw == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Check-in and check-out dates are required")
		return
	}
	checkIn, _, err1 := ParseDateTime(inRaw)
	checkOut, _, err2 := ParseDateTime(outRaw)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates must be YYYY-MM-DD or RFC 3339")
		return
	}

	res, err := h.service.CheckAvailability(c.Request.Context(), roomID, checkIn, checkOut, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// GetBooking godoc
// @Summary Get booking by reference
// @Tags Bookings
// @Accept json
// @Produce json
// @Param reference path string true "Booking reference" example(AMAN-2026-00001)
// @Success 200 {object} map[string]interface{} "Booking"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/bookings/{reference} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	v, err := h.service.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// CheckInQR GET /api/bookings/:reference/qr
func (h *Handler) CheckInQR(c *gin.Context) {
	png, err := h.service.CheckInQR(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// SendReceipt email booking receipt
// @Summary Email booking receipt
// @Description Emails the guest a confirmation receipt with the uploaded PDF attached.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body SendReceiptRequest true "Reference, email and base64 PDF"
// @Success 200 {object} map[string]interface{} "Message ID"
// @Failure 400 {object} map[string]interface{} "Validation failed or booking not confirmed"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 500 {object} map[string]interface{} "Email failed"
// @Router /api/bookings/send-receipt [post]
func (h *Handler) SendReceipt(c *gin.Context) {
	var req SendReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.SendReceipt(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Receipt sent successfully to "+res.SentTo, res)
}

/* ---------- ADMIN ---------- */

// ListBookings list bookings (admin)
// @Summary List bookings (admin)
// @Description Lists bookings with status, created-at range and text search filters. Overdue rows are expired on read.
// @Tags Admin - Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Payment status"
// @Param startDate query string false "Created on or after"
// @Param endDate query string false "Created on or before"
// @Param search query string false "Reference, guest name or email"
// @Param page query integer false "Page" example(1)
// @Param limit query integer false "Page size (max 50)" example(10)
// @Success 200 {object} map[string]interface{} "Bookings and pagination"
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Failure 401 {object} map[string]interface{} "Not authorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	f := ListFilter{
		Status: Status(c.Query("status")),
		Search: c.Query("search"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))

	if v := c.Query("startDate"); v != "" {
		t, _, err := ParseDateTime(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid startDate")
			return
		}
		f.CreatedOn = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, dateOnly, err := ParseDateTime(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid endDate")
			return
		}
		if dateOnly {
			t = now.With(t).EndOfDay()
		}
		f.CreatedTo = &t
	}

	res, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// BookingStats GET /api/admin/bookings/stats
func (h *Handler) BookingStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// UpdateStatus godoc
// @Summary Override booking status
// @Tags Admin - Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Booking ID"
// @Param request body UpdateStatusRequest true "New status and notes"
// @Success 200 {object} map[string]interface{} "Updated booking"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/bookings/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.Status = Status(strings.ToLower(string(req.Status)))

	res, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Booking status updated", res)
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found or unavailable")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message(err))
	case errors.Is(err, ErrNotAvailable):
		response.Error(c, http.StatusBadRequest, "BOOKING_CONFLICT", message(err))
	case errors.Is(err, ErrReferenceConflict):
		response.Error(c, http.StatusBadRequest, "REFERENCE_COLLISION", message(err))
	case errors.Is(err, ErrCodeConflict):
		response.Error(c, http.StatusBadRequest, "CODE_COLLISION", message(err))
	case errors.Is(err, ErrLockTimeout):
		response.Error(c, http.StatusBadRequest, "BOOKING_CONFLICT", message(err))
	case errors.Is(err, ErrAlreadyConfirmed):
		response.Error(c, http.StatusBadRequest, "ALREADY_CONFIRMED", message(err))
	case errors.Is(err, ErrCancelled):
		response.Error(c, http.StatusBadRequest, "BOOKING_CANCELLED", message(err))
	case errors.Is(err, ErrExpired):
		response.Error(c, http.StatusBadRequest, "BOOKING_EXPIRED", message(err))
	case errors.Is(err, ErrInvalidCode):
		response.Error(c, http.StatusBadRequest, "INVALID_CODE", message(err))
	case errors.Is(err, ErrNotConfirmed):
		response.Error(c, http.StatusBadRequest, "NOT_CONFIRMED", message(err))
	case errors.Is(err, ErrEmailFailed):
		log.Printf("request_error type=email path=%s err=%v", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "EMAIL_FAILED", "Failed to send receipt email")
	default:
		log.Printf("request_error type=internal path=%s err=%v", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// message capitalizes the error text for display.
func message(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
