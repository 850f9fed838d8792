package handlers

import (
	"gopilot/internal/middleware"
	"gopilot/internal/services"
	"gopilot/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, "PROFILE_FETCH_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "profile retrieved", profile)
}

// UpdateProfile applies the fields present in the payload. Absent fields
// are left untouched.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		handleServiceError(c, "PROFILE_UPDATE_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "profile updated", updated)
}
