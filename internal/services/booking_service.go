package services

import (
	"context"
	"fmt"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID primitive.ObjectID, request *CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID primitive.ObjectID, actor *models.User) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID primitive.ObjectID, actor *models.User, status models.BookingStatus) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetDriverBookings(ctx context.Context, driverUserID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	ListBookings(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
}

type bookingService struct {
	bookingRepo interfaces.BookingRepository
	driverRepo  interfaces.DriverRepository
	userRepo    interfaces.UserRepository
}

type CreateBookingRequest struct {
	DriverID       string                `json:"driver_id" validate:"required"`
	StartTime      time.Time             `json:"start_time" validate:"required"`
	EndTime        time.Time             `json:"end_time" validate:"required"`
	PickupLocation string                `json:"pickup_location" validate:"required"`
	DropLocation   string                `json:"drop_location" validate:"required"`
	VehicleDetails models.VehicleDetails `json:"vehicle_details"`

	// TotalAmount is optional; when omitted the price is the driver's
	// hourly rate times the booked duration.
	TotalAmount *float64 `json:"total_amount" validate:"omitempty,gt=0"`
}

func NewBookingService(bookingRepo interfaces.BookingRepository, driverRepo interfaces.DriverRepository, userRepo interfaces.UserRepository) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		driverRepo:  driverRepo,
		userRepo:    userRepo,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID primitive.ObjectID, request *CreateBookingRequest) (*models.Booking, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	driverID, err := primitive.ObjectIDFromHex(request.DriverID)
	if err != nil {
		return nil, fmt.Errorf("invalid driver id: %w", err)
	}

	if !request.EndTime.After(request.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	// The driver must exist before anything is persisted.
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsAvailable {
		return nil, ErrDriverUnavailable
	}

	amount := 0.0
	if request.TotalAmount != nil {
		amount = *request.TotalAmount
	} else {
		hours := request.EndTime.Sub(request.StartTime).Hours()
		amount = driver.HourlyRate * hours
	}

	booking := &models.Booking{
		UserID:         userID,
		DriverID:       driver.ID,
		StartTime:      request.StartTime,
		EndTime:        request.EndTime,
		PickupLocation: request.PickupLocation,
		DropLocation:   request.DropLocation,
		VehicleDetails: request.VehicleDetails,
		TotalAmount:    amount,
		Status:         models.BookingStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID primitive.ObjectID, actor *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canRead(ctx, booking, actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	return booking, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID primitive.ObjectID, actor *models.User, status models.BookingStatus) (*models.Booking, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, ErrInvalidBookingStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canMutate(ctx, booking, actor, status)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if !booking.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	updates := make(map[string]interface{})
	if status == models.BookingStatusCompleted {
		updates["payment_status"] = models.PaymentStatusCompleted
	}

	// Conditioned on the status we read, so a concurrent transition loses
	// cleanly instead of being silently overwritten.
	applied, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID, booking.Status, status, updates)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrBookingConflict
	}

	return s.bookingRepo.GetByID(ctx, bookingID)
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByUser(ctx, userID, params)
}

func (s *bookingService) GetDriverBookings(ctx context.Context, driverUserID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.bookingRepo.GetByDriver(ctx, driver.ID, params)
}

func (s *bookingService) ListBookings(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	if status == "" {
		return s.bookingRepo.List(ctx, params)
	}
	if !models.IsValidBookingStatus(status) {
		return nil, 0, ErrInvalidBookingStatus
	}
	return s.bookingRepo.GetByStatus(ctx, status, params)
}

// canRead allows the owning user, the assigned driver, or an admin.
func (s *bookingService) canRead(ctx context.Context, booking *models.Booking, actor *models.User) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}
	if booking.UserID == actor.ID {
		return true, nil
	}
	return s.isAssignedDriver(ctx, booking, actor)
}

// canMutate allows the assigned driver or an admin; the owning user may
// only cancel while the booking is still pending.
func (s *bookingService) canMutate(ctx context.Context, booking *models.Booking, actor *models.User, target models.BookingStatus) (bool, error) {
	if actor.IsAdmin() {
		return true, nil
	}

	if booking.UserID == actor.ID &&
		target == models.BookingStatusCancelled &&
		booking.Status == models.BookingStatusPending {
		return true, nil
	}

	return s.isAssignedDriver(ctx, booking, actor)
}

func (s *bookingService) isAssignedDriver(ctx context.Context, booking *models.Booking, actor *models.User) (bool, error) {
	if !actor.IsDriver() {
		return false, nil
	}

	driver, err := s.driverRepo.GetByID(ctx, booking.DriverID)
	if err != nil {
		return false, err
	}

	return driver.UserID == actor.ID, nil
}
