package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newDriverFixture(t *testing.T) (*memDriverRepo, *memUserRepo, DriverService) {
	t.Helper()
	driverRepo := newMemDriverRepo()
	userRepo := newMemUserRepo()
	return driverRepo, userRepo, NewDriverService(driverRepo, userRepo)
}

var seedCounter int64

func seedUser(t *testing.T, repo *memUserRepo, role models.UserRole) *models.User {
	t.Helper()
	n := atomic.AddInt64(&seedCounter, 1)
	user := &models.User{
		Name:  "Dana Cole",
		Email: fmt.Sprintf("user%d@example.com", n),
		Phone: fmt.Sprintf("+1555%07d", n),
		Role:  role,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func registerDriverRequest() *RegisterDriverRequest {
	return &RegisterDriverRequest{
		Experience:      6,
		LicenseNumber:   "DL-445566",
		LicenseExpiry:   time.Now().AddDate(3, 0, 0),
		HourlyRate:      30,
		VehicleTypes:    []string{"sedan", "suv"},
		LicenseImageURL: "https://cdn.example.com/license.jpg",
		ProfilePhotoURL: "https://cdn.example.com/photo.jpg",
	}
}

func TestRegisterDriverEscalatesRole(t *testing.T) {
	t.Parallel()
	driverRepo, userRepo, svc := newDriverFixture(t)
	user := seedUser(t, userRepo, models.UserRoleUser)

	driver, err := svc.RegisterDriver(context.Background(), user.ID, registerDriverRequest())
	if err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	if driver.DocumentStatus != models.DocumentStatusPending {
		t.Errorf("DocumentStatus = %q, want pending", driver.DocumentStatus)
	}
	if !driver.IsAvailable {
		t.Error("new driver should start available")
	}

	updated, err := userRepo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Role != models.UserRoleDriver {
		t.Errorf("Role = %q, want driver", updated.Role)
	}

	if _, err := driverRepo.GetByUserID(context.Background(), user.ID); err != nil {
		t.Errorf("driver profile not persisted: %v", err)
	}
}

func TestRegisterDriverTwiceFails(t *testing.T) {
	t.Parallel()
	_, userRepo, svc := newDriverFixture(t)
	user := seedUser(t, userRepo, models.UserRoleUser)

	if _, err := svc.RegisterDriver(context.Background(), user.ID, registerDriverRequest()); err != nil {
		t.Fatalf("first RegisterDriver: %v", err)
	}
	if _, err := svc.RegisterDriver(context.Background(), user.ID, registerDriverRequest()); !errors.Is(err, ErrDriverExists) {
		t.Errorf("err = %v, want ErrDriverExists", err)
	}
}

func TestRegisterDriverRejectsUnknownVehicleType(t *testing.T) {
	t.Parallel()
	_, userRepo, svc := newDriverFixture(t)
	user := seedUser(t, userRepo, models.UserRoleUser)

	req := registerDriverRequest()
	req.VehicleTypes = []string{"spaceship"}

	if _, err := svc.RegisterDriver(context.Background(), user.ID, req); err == nil {
		t.Error("expected validation error for unknown vehicle type")
	}
}

func TestToggleAvailabilityFlipsOnlyTheFlag(t *testing.T) {
	t.Parallel()
	driverRepo, userRepo, svc := newDriverFixture(t)
	user := seedUser(t, userRepo, models.UserRoleUser)

	created, err := svc.RegisterDriver(context.Background(), user.ID, registerDriverRequest())
	if err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	toggled, err := svc.ToggleAvailability(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if toggled.IsAvailable {
		t.Error("IsAvailable = true after toggling an available driver")
	}
	if toggled.HourlyRate != created.HourlyRate || toggled.LicenseNumber != created.LicenseNumber {
		t.Error("toggle modified unrelated fields")
	}

	toggled, err = svc.ToggleAvailability(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ToggleAvailability: %v", err)
	}
	if !toggled.IsAvailable {
		t.Error("IsAvailable = false after toggling back")
	}

	stored, _ := driverRepo.GetByUserID(context.Background(), user.ID)
	if !stored.IsAvailable {
		t.Error("toggle not persisted")
	}
}

func TestUpdateProfileWritesOnlyPresentFields(t *testing.T) {
	t.Parallel()
	_, userRepo, svc := newDriverFixture(t)
	user := seedUser(t, userRepo, models.UserRoleUser)

	if _, err := svc.RegisterDriver(context.Background(), user.ID, registerDriverRequest()); err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	// Lowering the rate and disabling availability are both falsy-adjacent
	// values that must still be applied.
	rate := 10.0
	available := false
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &UpdateDriverRequest{
		HourlyRate:  &rate,
		IsAvailable: &available,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if updated.HourlyRate != 10 {
		t.Errorf("HourlyRate = %v, want 10", updated.HourlyRate)
	}
	if updated.IsAvailable {
		t.Error("IsAvailable = true, want false")
	}
	if updated.LicenseNumber != "DL-445566" {
		t.Errorf("LicenseNumber = %q, absent field was modified", updated.LicenseNumber)
	}
	if updated.Experience != 6 {
		t.Errorf("Experience = %d, absent field was modified", updated.Experience)
	}
}

func TestVerifyDriver(t *testing.T) {
	t.Parallel()
	_, userRepo, svc := newDriverFixture(t)

	approveUser := seedUser(t, userRepo, models.UserRoleUser)
	approved, err := svc.RegisterDriver(context.Background(), approveUser.ID, registerDriverRequest())
	if err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	got, err := svc.VerifyDriver(context.Background(), approved.ID, &VerifyDriverRequest{Approve: true})
	if err != nil {
		t.Fatalf("VerifyDriver approve: %v", err)
	}
	if got.DocumentStatus != models.DocumentStatusApproved {
		t.Errorf("DocumentStatus = %q, want approved", got.DocumentStatus)
	}
	if got.VerifiedAt == nil {
		t.Error("VerifiedAt not set on approval")
	}

	rejectUser := seedUser(t, userRepo, models.UserRoleUser)
	rejected, err := svc.RegisterDriver(context.Background(), rejectUser.ID, registerDriverRequest())
	if err != nil {
		t.Fatalf("RegisterDriver: %v", err)
	}

	got, err = svc.VerifyDriver(context.Background(), rejected.ID, &VerifyDriverRequest{Approve: false, Reason: "license expired"})
	if err != nil {
		t.Fatalf("VerifyDriver reject: %v", err)
	}
	if got.DocumentStatus != models.DocumentStatusRejected {
		t.Errorf("DocumentStatus = %q, want rejected", got.DocumentStatus)
	}
	if got.RejectionReason != "license expired" {
		t.Errorf("RejectionReason = %q", got.RejectionReason)
	}
}

func TestListDriversFilters(t *testing.T) {
	t.Parallel()
	driverRepo, _, svc := newDriverFixture(t)

	sedan := &models.Driver{UserID: primitive.NewObjectID(), VehicleTypes: []string{"sedan"}, IsAvailable: true}
	van := &models.Driver{UserID: primitive.NewObjectID(), VehicleTypes: []string{"van"}, IsAvailable: false}
	for _, d := range []*models.Driver{sedan, van} {
		if err := driverRepo.Create(context.Background(), d); err != nil {
			t.Fatalf("seed driver: %v", err)
		}
	}

	available := true
	drivers, total, err := svc.ListDrivers(context.Background(), &interfaces.DriverFilter{VehicleType: "sedan", Available: &available}, nil)
	if err != nil {
		t.Fatalf("ListDrivers: %v", err)
	}
	if total != 1 || len(drivers) != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if drivers[0].ID != sedan.ID {
		t.Errorf("got driver %s, want the sedan driver", drivers[0].ID.Hex())
	}
}
