package handlers

import (
	"strconv"

	"gopilot/internal/models"
	"gopilot/internal/services"
	"gopilot/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler groups the management endpoints. The routes mounting it
// sit behind the admin-role middleware, so handlers here do not re-check
// the caller's role.
type AdminHandler struct {
	userService    services.UserService
	driverService  services.DriverService
	bookingService services.BookingService
	reportService  services.ReportService
}

func NewAdminHandler(
	userService services.UserService,
	driverService services.DriverService,
	bookingService services.BookingService,
	reportService services.ReportService,
) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		driverService:  driverService,
		bookingService: bookingService,
		reportService:  reportService,
	}
}

// ListUsers returns all users, paginated and searchable.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, "USER_LIST_FAILED", err)
		return
	}

	utils.SuccessResponseWithMeta(c, "users retrieved", users, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// DeleteUser soft deletes a user account.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid user id")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		handleServiceError(c, "USER_DELETE_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "user deleted", nil)
}

// ListPendingDrivers returns drivers awaiting document verification.
func (h *AdminHandler) ListPendingDrivers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	drivers, total, err := h.driverService.GetPendingVerifications(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, "DRIVER_LIST_FAILED", err)
		return
	}

	utils.SuccessResponseWithMeta(c, "pending drivers retrieved", drivers, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// VerifyDriver approves or rejects a driver's documents. Rejections
// carry a reason shown to the driver.
func (h *AdminHandler) VerifyDriver(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid driver id")
		return
	}

	var req services.VerifyDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	driver, err := h.driverService.VerifyDriver(c.Request.Context(), driverID, &req)
	if err != nil {
		handleServiceError(c, "DRIVER_VERIFICATION_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "driver verification updated", driver)
}

// ListBookings returns all bookings, optionally filtered by status.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	status := models.BookingStatus(c.Query("status"))
	if status != "" && !models.IsValidBookingStatus(status) {
		utils.BadRequestResponse(c, "invalid booking status")
		return
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), status, params)
	if err != nil {
		handleServiceError(c, "BOOKING_LIST_FAILED", err)
		return
	}

	utils.SuccessResponseWithMeta(c, "bookings retrieved", bookings, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetOverview returns platform-wide totals and revenue.
func (h *AdminHandler) GetOverview(c *gin.Context) {
	report, err := h.reportService.GetOverview(c.Request.Context())
	if err != nil {
		handleServiceError(c, "REPORT_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "overview retrieved", report)
}

// GetBookingReport returns per-day booking counts and revenue for the
// requested window, defaulting to the last 30 days.
func (h *AdminHandler) GetBookingReport(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequestResponse(c, "days must be an integer")
			return
		}
		days = parsed
	}

	report, err := h.reportService.GetBookingReport(c.Request.Context(), days)
	if err != nil {
		handleServiceError(c, "REPORT_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "booking report retrieved", report)
}
