package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gopilot/internal/middleware"
	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/services"
	"gopilot/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverHandler struct {
	driverService services.DriverService
	uploadService services.UploadService
}

func NewDriverHandler(driverService services.DriverService, uploadService services.UploadService) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		uploadService: uploadService,
	}
}

// Register creates a driver profile for the authenticated user. The
// request is multipart: profile fields plus the license image, profile
// photo and up to five additional documents. Files are uploaded before
// the profile is persisted so a failed upload never leaves a profile
// with dangling document URLs.
func (h *DriverHandler) Register(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	req, err := h.parseRegisterForm(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	licenseHeader, err := c.FormFile("license_image")
	if err != nil {
		utils.BadRequestResponse(c, "license_image file is required")
		return
	}
	photoHeader, err := c.FormFile("profile_photo")
	if err != nil {
		utils.BadRequestResponse(c, "profile_photo file is required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}
	additional := form.File["additional_docs"]
	if len(additional) > utils.MaxAdditionalDocs {
		utils.BadRequestResponse(c, "too many additional documents")
		return
	}

	if err := utils.ValidateUpload(licenseHeader, utils.AllowedDocumentTypes, utils.MaxDocumentSize); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	if err := utils.ValidateUpload(photoHeader, utils.AllowedImageTypes, utils.MaxImageSize); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	for _, doc := range additional {
		if err := utils.ValidateUpload(doc, utils.AllowedDocumentTypes, utils.MaxDocumentSize); err != nil {
			utils.BadRequestResponse(c, err.Error())
			return
		}
	}

	ctx := c.Request.Context()
	keyPrefix := "drivers/" + user.ID.Hex()

	req.LicenseImageURL, err = h.uploadService.UploadDocument(ctx, licenseHeader, keyPrefix+"/license")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED", utils.ErrFileUploadFailed)
		return
	}
	req.ProfilePhotoURL, err = h.uploadService.UploadProfilePhoto(ctx, photoHeader, keyPrefix+"/photo")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED", utils.ErrFileUploadFailed)
		return
	}
	for _, doc := range additional {
		url, uploadErr := h.uploadService.UploadDocument(ctx, doc, keyPrefix+"/docs")
		if uploadErr != nil {
			utils.ErrorResponse(c, http.StatusBadGateway, "UPLOAD_FAILED", utils.ErrFileUploadFailed)
			return
		}
		req.AdditionalDocURLs = append(req.AdditionalDocURLs, url)
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	driver, err := h.driverService.RegisterDriver(ctx, user.ID, req)
	if err != nil {
		handleServiceError(c, "DRIVER_REGISTRATION_FAILED", err)
		return
	}

	utils.CreatedResponse(c, "driver registered, verification pending", driver)
}

func (h *DriverHandler) parseRegisterForm(c *gin.Context) (*services.RegisterDriverRequest, error) {
	req := &services.RegisterDriverRequest{
		LicenseNumber: strings.TrimSpace(c.PostForm("license_number")),
	}

	if raw := c.PostForm("experience"); raw != "" {
		experience, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidField("experience")
		}
		req.Experience = experience
	}

	rate, err := strconv.ParseFloat(c.PostForm("hourly_rate"), 64)
	if err != nil {
		return nil, errInvalidField("hourly_rate")
	}
	req.HourlyRate = rate

	expiry, err := time.Parse(time.RFC3339, c.PostForm("license_expiry"))
	if err != nil {
		return nil, errInvalidField("license_expiry")
	}
	req.LicenseExpiry = expiry

	for _, vt := range strings.Split(c.PostForm("vehicle_types"), ",") {
		if vt = strings.TrimSpace(vt); vt != "" {
			req.VehicleTypes = append(req.VehicleTypes, strings.ToLower(vt))
		}
	}

	return req, nil
}

// ListDrivers returns verified drivers, optionally filtered by vehicle
// type and availability.
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := &interfaces.DriverFilter{
		VehicleType: strings.ToLower(strings.TrimSpace(c.Query("vehicle_type"))),
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			utils.BadRequestResponse(c, "available must be true or false")
			return
		}
		filter.Available = &available
	}

	drivers, total, err := h.driverService.ListDrivers(c.Request.Context(), filter, params)
	if err != nil {
		handleServiceError(c, "DRIVER_LIST_FAILED", err)
		return
	}

	utils.SuccessResponseWithMeta(c, "drivers retrieved", drivers, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetDriver returns a single driver profile by id.
func (h *DriverHandler) GetDriver(c *gin.Context) {
	driverID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid driver id")
		return
	}

	driver, err := h.driverService.GetDriver(c.Request.Context(), driverID)
	if err != nil {
		handleServiceError(c, "DRIVER_FETCH_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "driver retrieved", driver)
}

// GetOwnProfile returns the authenticated driver's own profile.
func (h *DriverHandler) GetOwnProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	driver, err := h.driverService.GetDriverByUserID(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, "DRIVER_FETCH_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "driver retrieved", driver)
}

// UpdateProfile applies the fields present in the payload to the
// authenticated driver's profile.
func (h *DriverHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req services.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
		return
	}

	driver, err := h.driverService.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		handleServiceError(c, "DRIVER_UPDATE_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "driver profile updated", driver)
}

// ToggleAvailability flips the authenticated driver's availability flag.
func (h *DriverHandler) ToggleAvailability(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	driver, err := h.driverService.ToggleAvailability(c.Request.Context(), user.ID)
	if err != nil {
		handleServiceError(c, "AVAILABILITY_TOGGLE_FAILED", err)
		return
	}

	utils.SuccessResponse(c, "availability updated", driver)
}

type fieldError struct {
	field string
}

func (e fieldError) Error() string {
	return "invalid value for " + e.field
}

func errInvalidField(field string) error {
	return fieldError{field: field}
}
