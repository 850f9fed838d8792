package services

import (
	"context"
	"testing"

	"gopilot/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetOverview(t *testing.T) {
	t.Parallel()
	userRepo := newMemUserRepo()
	driverRepo := newMemDriverRepo()
	bookingRepo := newMemBookingRepo()
	svc := NewReportService(userRepo, driverRepo, bookingRepo)

	for i := 0; i < 3; i++ {
		seedUser(t, userRepo, models.UserRoleUser)
	}
	seedDriver(t, driverRepo, 25, true)

	seedBooking := func(status models.BookingStatus, amount float64) {
		b := &models.Booking{
			UserID:      primitive.NewObjectID(),
			DriverID:    primitive.NewObjectID(),
			Status:      status,
			TotalAmount: amount,
		}
		if err := bookingRepo.Create(context.Background(), b); err != nil {
			t.Fatalf("seed booking: %v", err)
		}
	}
	seedBooking(models.BookingStatusCompleted, 100)
	seedBooking(models.BookingStatusCompleted, 80)
	seedBooking(models.BookingStatusPending, 50)
	seedBooking(models.BookingStatusCancelled, 40)

	report, err := svc.GetOverview(context.Background())
	if err != nil {
		t.Fatalf("GetOverview: %v", err)
	}

	if report.TotalUsers != 3 {
		t.Errorf("TotalUsers = %d, want 3", report.TotalUsers)
	}
	if report.TotalDrivers != 1 {
		t.Errorf("TotalDrivers = %d, want 1", report.TotalDrivers)
	}
	if report.PendingDrivers != 1 {
		t.Errorf("PendingDrivers = %d, want 1", report.PendingDrivers)
	}
	if report.TotalBookings != 4 {
		t.Errorf("TotalBookings = %d, want 4", report.TotalBookings)
	}
	if report.BookingsByState["completed"] != 2 {
		t.Errorf("completed = %d, want 2", report.BookingsByState["completed"])
	}
	// Only completed bookings count toward revenue.
	if report.TotalRevenue != 180 {
		t.Errorf("TotalRevenue = %v, want 180", report.TotalRevenue)
	}
}

func TestGetBookingReportClampsDays(t *testing.T) {
	t.Parallel()
	svc := NewReportService(newMemUserRepo(), newMemDriverRepo(), newMemBookingRepo())

	tests := []struct {
		in   int
		want int
	}{
		{0, 30},
		{-5, 30},
		{7, 7},
		{1000, 365},
	}
	for _, tt := range tests {
		report, err := svc.GetBookingReport(context.Background(), tt.in)
		if err != nil {
			t.Fatalf("GetBookingReport(%d): %v", tt.in, err)
		}
		if report.Days != tt.want {
			t.Errorf("Days(%d) = %d, want %d", tt.in, report.Days, tt.want)
		}
	}
}
