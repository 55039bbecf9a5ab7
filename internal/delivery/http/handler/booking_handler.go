package handler

import (
	"net/http"

	"fourwheeler-backend/internal/middleware"
	"fourwheeler-backend/internal/usecase/booking"
	"fourwheeler-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service *booking.Service
}

func NewBookingHandler(service *booking.Service) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes mounts the public booking route. identify should populate
// the caller's identity when a session is present without requiring one.
func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup, identify gin.HandlerFunc) {
	router.POST("/cars/:id/test-drive", identify, h.BookTestDrive)
}

func (h *BookingHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/test-drives", h.ListTestDrives)
}

func (h *BookingHandler) BookTestDrive(c *gin.Context) {
	carID, ok := uuidParam(c, "id", "car")
	if !ok {
		return
	}

	var req booking.BookTestDriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	res, err := h.service.BookTestDrive(c.Request.Context(), carID, userID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Test drive booked successfully", res)
}

func (h *BookingHandler) ListTestDrives(c *gin.Context) {
	var query booking.ListTestDrivesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	res, err := h.service.ListTestDrives(c.Request.Context(), &query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Test drives retrieved successfully", res)
}
