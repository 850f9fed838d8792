package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DriverService interface {
	RegisterDriver(ctx context.Context, userID primitive.ObjectID, request *RegisterDriverRequest) (*models.Driver, error)
	GetDriver(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error)
	GetDriverByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	ListDrivers(ctx context.Context, filter *interfaces.DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateDriverRequest) (*models.Driver, error)
	ToggleAvailability(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)

	// Admin verification
	GetPendingVerifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error)
	VerifyDriver(ctx context.Context, driverID primitive.ObjectID, request *VerifyDriverRequest) (*models.Driver, error)
}

type driverService struct {
	driverRepo interfaces.DriverRepository
	userRepo   interfaces.UserRepository
}

type RegisterDriverRequest struct {
	Experience    int       `json:"experience" validate:"gte=0,lte=60"`
	LicenseNumber string    `json:"license_number" validate:"required"`
	LicenseExpiry time.Time `json:"license_expiry" validate:"required"`
	HourlyRate    float64   `json:"hourly_rate" validate:"required,gt=0"`
	VehicleTypes  []string  `json:"vehicle_types" validate:"required,min=1,dive,vehicle_type"`

	// Document URLs, populated by the handler after upload.
	LicenseImageURL   string   `json:"license_image_url" validate:"required"`
	ProfilePhotoURL   string   `json:"profile_photo_url" validate:"required"`
	AdditionalDocURLs []string `json:"additional_doc_urls" validate:"max=5"`
}

// UpdateDriverRequest uses pointer fields: only fields present in the
// payload are written, so hourly_rate can be lowered and is_available can
// be set to false.
type UpdateDriverRequest struct {
	Experience    *int       `json:"experience" validate:"omitempty,gte=0,lte=60"`
	LicenseNumber *string    `json:"license_number" validate:"omitempty,min=1"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	HourlyRate    *float64   `json:"hourly_rate" validate:"omitempty,gt=0"`
	VehicleTypes  *[]string  `json:"vehicle_types" validate:"omitempty,min=1,dive,vehicle_type"`
	IsAvailable   *bool      `json:"is_available"`
}

type VerifyDriverRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func NewDriverService(driverRepo interfaces.DriverRepository, userRepo interfaces.UserRepository) DriverService {
	return &driverService{
		driverRepo: driverRepo,
		userRepo:   userRepo,
	}
}

func (s *driverService) RegisterDriver(ctx context.Context, userID primitive.ObjectID, request *RegisterDriverRequest) (*models.Driver, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.driverRepo.GetByUserID(ctx, userID); err == nil {
		return nil, ErrDriverExists
	}

	driver := &models.Driver{
		UserID:        userID,
		Experience:    request.Experience,
		LicenseNumber: request.LicenseNumber,
		LicenseExpiry: request.LicenseExpiry,
		HourlyRate:    request.HourlyRate,
		IsAvailable:   true,
		VehicleTypes:  request.VehicleTypes,
		Documents: models.DriverDocuments{
			LicenseImage:   request.LicenseImageURL,
			ProfilePhoto:   request.ProfilePhotoURL,
			AdditionalDocs: request.AdditionalDocURLs,
		},
		DocumentStatus: models.DocumentStatusPending,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrDriverExists
		}
		return nil, err
	}

	// Role escalation is a side effect of driver registration.
	if err := s.userRepo.UpdateRole(ctx, userID, models.UserRoleDriver); err != nil {
		return nil, fmt.Errorf("driver created but role update failed: %w", err)
	}

	return driver, nil
}

func (s *driverService) GetDriver(ctx context.Context, driverID primitive.ObjectID) (*models.Driver, error) {
	return s.driverRepo.GetByID(ctx, driverID)
}

func (s *driverService) GetDriverByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	return s.driverRepo.GetByUserID(ctx, userID)
}

func (s *driverService) ListDrivers(ctx context.Context, filter *interfaces.DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	return s.driverRepo.List(ctx, filter, params)
}

func (s *driverService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateDriverRequest) (*models.Driver, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if request.Experience != nil {
		updates["experience"] = *request.Experience
	}
	if request.LicenseNumber != nil {
		updates["license_number"] = *request.LicenseNumber
	}
	if request.LicenseExpiry != nil {
		updates["license_expiry"] = *request.LicenseExpiry
	}
	if request.HourlyRate != nil {
		updates["hourly_rate"] = *request.HourlyRate
	}
	if request.VehicleTypes != nil {
		updates["vehicle_types"] = *request.VehicleTypes
	}
	if request.IsAvailable != nil {
		updates["is_available"] = *request.IsAvailable
	}

	if len(updates) > 0 {
		if err := s.driverRepo.Update(ctx, driver.ID, updates); err != nil {
			return nil, err
		}
	}

	return s.driverRepo.GetByID(ctx, driver.ID)
}

func (s *driverService) ToggleAvailability(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.driverRepo.UpdateAvailability(ctx, driver.ID, !driver.IsAvailable); err != nil {
		return nil, err
	}

	return s.driverRepo.GetByID(ctx, driver.ID)
}

func (s *driverService) GetPendingVerifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	return s.driverRepo.GetPendingVerifications(ctx, params)
}

func (s *driverService) VerifyDriver(ctx context.Context, driverID primitive.ObjectID, request *VerifyDriverRequest) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	status := models.DocumentStatusApproved
	reason := ""
	if !request.Approve {
		status = models.DocumentStatusRejected
		reason = request.Reason
	}

	if err := s.driverRepo.UpdateDocumentStatus(ctx, driver.ID, status, reason); err != nil {
		return nil, err
	}

	return s.driverRepo.GetByID(ctx, driver.ID)
}
