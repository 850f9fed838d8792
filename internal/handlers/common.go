package handlers

import (
	"errors"
	"net/http"

	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/services"
	"gopilot/internal/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps service and repository errors to HTTP responses.
// Unrecognized errors become a generic 500 so internals never leak to the
// client.
func handleServiceError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, code, "resource not found")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, code, err.Error())
	case errors.Is(err, services.ErrTooManyAttempts):
		utils.ErrorResponse(c, http.StatusTooManyRequests, code, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrPhoneTaken),
		errors.Is(err, services.ErrDriverExists),
		errors.Is(err, services.ErrBookingConflict),
		errors.Is(err, interfaces.ErrDuplicate):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, code, err.Error())
	case errors.Is(err, services.ErrInvalidBookingStatus),
		errors.Is(err, services.ErrInvalidTimeRange),
		errors.Is(err, services.ErrDriverUnavailable):
		utils.BadRequestResponse(c, err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}
