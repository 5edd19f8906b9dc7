package catalog

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resort/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- PUBLIC ---------- */

// ListRooms list active rooms
// @Summary List active rooms
// @Description Returns active rooms filtered by category, price range, guest capacity and name search.
// @Tags Catalog - Rooms
// @Accept json
// @Produce json
// @Param category query string false "Room category (villa, suite, casita, ...)"
// @Param minPrice query number false "Minimum base price"
// @Param maxPrice query number false "Maximum base price"
// @Param guests query integer false "Minimum guest capacity"
// @Param search query string false "Name or description search"
// @Success 200 {object} map[string]interface{} "Rooms and count"
// @Failure 400 {object} map[string]interface{} "Unknown category"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	var f RoomFilter

	if cat := c.Query("category"); cat != "" {
		if !Category(cat).Valid() {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown room category")
			return
		}
		f.Category = Category(cat)
	}
	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &p
		}
	}
	if v := c.Query("guests"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.MinGuests = n
		}
	}
	f.Search = c.Query("search")

	rooms, err := h.service.ListRooms(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

// GetRoom get room by ID
// @Summary Get room by ID
// @Description Returns one room with its effective price and discount state.
// @Tags Catalog - Rooms
// @Accept json
// @Produce json
// @Param id path integer true "Room ID" example(1)
// @Success 200 {object} map[string]interface{} "Room"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/rooms/{id} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

/* ---------- ADMIN ---------- */

// ListAllRooms list all rooms (admin)
// @Summary List all rooms (admin)
// @Description Returns every room including inactive ones, newest first.
// @Tags Admin - Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Rooms"
// @Failure 401 {object} map[string]interface{} "Not authorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/rooms [get]
func (h *Handler) ListAllRooms(c *gin.Context) {
	rooms, err := h.service.ListAllRooms(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

// CreateRoom godoc
// @Summary Create room
// @Tags Admin - Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRoomRequest true "Room data"
// @Success 201 {object} map[string]interface{} "Created room"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 401 {object} map[string]interface{} "Not authorized"
// @Failure 403 {object} map[string]interface{} "Forbidden"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Room created", gin.H{"room": room})
}

// UpdateRoom godoc
// @Summary Update room
// @Tags Admin - Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Room ID"
// @Param request body UpdateRoomRequest true "Fields to change"
// @Success 200 {object} map[string]interface{} "Updated room"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/rooms/{id} [put]
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Room updated", gin.H{"room": room})
}

// DeleteRoom godoc
// @Summary Deactivate room
// @Tags Admin - Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Room ID"
// @Success 200 {object} map[string]interface{} "Room deactivated"
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/rooms/{id} [delete]
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Room deactivated", nil)
}

// UpdateDiscount set or clear a room discount
// @Summary Set or clear a room discount
// @Description Sets the discount percentage and its validity window. A zero percentage clears it.
// @Tags Admin - Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path integer true "Room ID"
// @Param request body UpdateDiscountRequest true "Discount window"
// @Success 200 {object} map[string]interface{} "Updated room"
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/admin/rooms/{id}/discount [patch]
func (h *Handler) UpdateDiscount(c *gin.Context) {
	id, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	room, err := h.service.UpdateDiscount(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Discount updated", gin.H{"room": room})
}

func roomIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		log.Printf("catalog_error path=%s err=%v", c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
