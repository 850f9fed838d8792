package services

import (
	"context"
	"fmt"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"
)

type ReportService interface {
	GetOverview(ctx context.Context) (*OverviewReport, error)
	GetBookingReport(ctx context.Context, days int) (*BookingReport, error)
}

type reportService struct {
	userRepo    interfaces.UserRepository
	driverRepo  interfaces.DriverRepository
	bookingRepo interfaces.BookingRepository
}

type OverviewReport struct {
	TotalUsers      int64            `json:"total_users"`
	TotalDrivers    int64            `json:"total_drivers"`
	PendingDrivers  int64            `json:"pending_drivers"`
	TotalBookings   int64            `json:"total_bookings"`
	BookingsByState map[string]int64 `json:"bookings_by_status"`
	TotalRevenue    float64          `json:"total_revenue"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

type BookingReport struct {
	Days        int                            `json:"days"`
	Daily       []*interfaces.DailyBookingStat `json:"daily"`
	GeneratedAt time.Time                      `json:"generated_at"`
}

func NewReportService(userRepo interfaces.UserRepository, driverRepo interfaces.DriverRepository, bookingRepo interfaces.BookingRepository) ReportService {
	return &reportService{
		userRepo:    userRepo,
		driverRepo:  driverRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *reportService) GetOverview(ctx context.Context) (*OverviewReport, error) {
	totalUsers, err := s.userRepo.GetTotalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalDrivers, err := s.driverRepo.GetTotalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count drivers: %w", err)
	}

	pendingDrivers, err := s.driverRepo.GetCountByDocumentStatus(ctx, models.DocumentStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending drivers: %w", err)
	}

	totalBookings, err := s.bookingRepo.GetTotalCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	byStatus := make(map[string]int64)
	for _, status := range []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
	} {
		count, err := s.bookingRepo.GetCountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s bookings: %w", status, err)
		}
		byStatus[string(status)] = count
	}

	revenue, err := s.bookingRepo.GetCompletedRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &OverviewReport{
		TotalUsers:      totalUsers,
		TotalDrivers:    totalDrivers,
		PendingDrivers:  pendingDrivers,
		TotalBookings:   totalBookings,
		BookingsByState: byStatus,
		TotalRevenue:    revenue,
		GeneratedAt:     time.Now(),
	}, nil
}

func (s *reportService) GetBookingReport(ctx context.Context, days int) (*BookingReport, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	since := time.Now().AddDate(0, 0, -days)
	daily, err := s.bookingRepo.GetDailyStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}

	return &BookingReport{
		Days:        days,
		Daily:       daily,
		GeneratedAt: time.Now(),
	}, nil
}
