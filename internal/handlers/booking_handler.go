package handlers

import (
	"gopilot/internal/middleware"
	"gopilot/internal/models"
	"gopilot/internal/services"
	"gopilot/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking books an available driver for the authenticated user.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req services.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), user.ID, &req)
	if err != nil {
		handleServiceError(c, "BOOKING_CREATE_FAILED", err)
		return
	}

	utils.CreatedResponse(c, "booking created", booking)
}

// GetBooking returns a booking visible to the caller. Non-admins only
// see bookings they own or are assigned to drive.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid booking id")
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID, user)
	if err != nil {
		handleServiceError(c, "BOOKING_FETCH_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "booking retrieved", booking)
}

// UpdateStatus moves a booking through its lifecycle. Illegal
// transitions and writes against terminal states are rejected.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid booking id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), bookingID, user, models.BookingStatus(req.Status))
	if err != nil {
		handleServiceError(c, "BOOKING_STATUS_UPDATE_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "booking status updated", booking)
}

// GetUserBookings lists the authenticated user's own bookings.
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.GetUserBookings(c.Request.Context(), user.ID, params)
	if err != nil {
		handleServiceError(c, "BOOKING_LIST_FAILED", err)
		return
	}

	utils.SuccessResponseWithMeta(c, "bookings retrieved", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetDriverBookings lists bookings assigned to the authenticated driver.
func (h *BookingHandler) GetDriverBookings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.GetDriverBookings(c.Request.Context(), user.ID, params)
	if err != nil {
		handleServiceError(c, "BOOKING_LIST_FAILED", err)
		return
	}

	utils.SuccessResponseWithMeta(c, "bookings retrieved", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
