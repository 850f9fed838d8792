package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They hold copies so tests observe only what
// the service actually persisted.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Phone == user.Phone {
			return interfaces.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, interfaces.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return interfaces.ErrNotFound
	}
	for field, value := range updates {
		switch field {
		case "name":
			user.Name = value.(string)
		case "phone":
			user.Phone = value.(string)
		case "password":
			user.Password = value.(string)
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return interfaces.ErrNotFound
	}
	now := time.Now()
	user.DeletedAt = &now
	return nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.DeletedAt == nil && strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *memUserRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Phone == phone {
			copied := *user
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *memUserRepo) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return interfaces.ErrNotFound
	}
	user.Role = role
	return nil
}

func (r *memUserRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, user := range r.users {
		if user.DeletedAt == nil {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) GetByRole(ctx context.Context, role models.UserRole, params *utils.PaginationParams) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, user := range r.users {
		if user.DeletedAt == nil && user.Role == role {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) GetTotalCount(ctx context.Context) (int64, error) {
	_, total, _ := r.List(ctx, nil)
	return total, nil
}

func (r *memUserRepo) GetCountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	_, total, _ := r.GetByRole(ctx, role, nil)
	return total, nil
}

type memDriverRepo struct {
	mu      sync.Mutex
	drivers map[primitive.ObjectID]*models.Driver
}

func newMemDriverRepo() *memDriverRepo {
	return &memDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (r *memDriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.drivers {
		if existing.UserID == driver.UserID {
			return interfaces.ErrDuplicate
		}
	}
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt
	copied := *driver
	r.drivers[driver.ID] = &copied
	return nil
}

func (r *memDriverRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *driver
	return &copied, nil
}

func (r *memDriverRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, driver := range r.drivers {
		if driver.UserID == userID {
			copied := *driver
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *memDriverRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	for field, value := range updates {
		switch field {
		case "experience":
			driver.Experience = value.(int)
		case "license_number":
			driver.LicenseNumber = value.(string)
		case "license_expiry":
			driver.LicenseExpiry = value.(time.Time)
		case "hourly_rate":
			driver.HourlyRate = value.(float64)
		case "vehicle_types":
			driver.VehicleTypes = value.([]string)
		case "is_available":
			driver.IsAvailable = value.(bool)
		}
	}
	driver.UpdatedAt = time.Now()
	return nil
}

func (r *memDriverRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(r.drivers, id)
	return nil
}

func (r *memDriverRepo) UpdateAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	driver.IsAvailable = available
	return nil
}

func (r *memDriverRepo) UpdateDocumentStatus(ctx context.Context, id primitive.ObjectID, status models.DocumentStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	driver.DocumentStatus = status
	driver.RejectionReason = reason
	if status == models.DocumentStatusApproved {
		now := time.Now()
		driver.VerifiedAt = &now
	}
	return nil
}

func (r *memDriverRepo) GetPendingVerifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Driver
	for _, driver := range r.drivers {
		if driver.DocumentStatus == models.DocumentStatusPending {
			copied := *driver
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memDriverRepo) List(ctx context.Context, filter *interfaces.DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Driver
	for _, driver := range r.drivers {
		if filter != nil {
			if filter.VehicleType != "" && !driver.HasVehicleType(filter.VehicleType) {
				continue
			}
			if filter.Available != nil && driver.IsAvailable != *filter.Available {
				continue
			}
		}
		copied := *driver
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memDriverRepo) GetTotalCount(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.drivers)), nil
}

func (r *memDriverRepo) GetCountByDocumentStatus(ctx context.Context, status models.DocumentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, driver := range r.drivers {
		if driver.DocumentStatus == status {
			count++
		}
	}
	return count, nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking

	// beforeUpdateStatusIf, when set, runs inside UpdateStatusIf before the
	// condition check. Tests use it to interleave a competing writer.
	beforeUpdateStatusIf func()
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *memBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *memBookingRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	r.applyUpdates(booking, updates)
	return nil
}

func (r *memBookingRepo) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, updates map[string]interface{}) (bool, error) {
	if r.beforeUpdateStatusIf != nil {
		r.beforeUpdateStatusIf()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return false, interfaces.ErrNotFound
	}
	if booking.Status != from {
		return false, nil
	}
	booking.Status = to
	r.applyUpdates(booking, updates)
	return true, nil
}

func (r *memBookingRepo) applyUpdates(booking *models.Booking, updates map[string]interface{}) {
	for field, value := range updates {
		switch field {
		case "status":
			booking.Status = value.(models.BookingStatus)
		case "payment_status":
			booking.PaymentStatus = value.(models.PaymentStatus)
		}
	}
	booking.UpdatedAt = time.Now()
}

func (r *memBookingRepo) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		if booking.DriverID == driverID {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		if booking.Status == status {
			copied := *booking
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		copied := *booking
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *memBookingRepo) GetTotalCount(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *memBookingRepo) GetCountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	_, total, _ := r.GetByStatus(ctx, status, nil)
	return total, nil
}

func (r *memBookingRepo) GetCompletedRevenue(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var revenue float64
	for _, booking := range r.bookings {
		if booking.Status == models.BookingStatusCompleted {
			revenue += booking.TotalAmount
		}
	}
	return revenue, nil
}

func (r *memBookingRepo) GetDailyStats(ctx context.Context, since time.Time) ([]*interfaces.DailyBookingStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[string]*interfaces.DailyBookingStat)
	for _, booking := range r.bookings {
		if booking.CreatedAt.Before(since) {
			continue
		}
		day := booking.CreatedAt.Format("2006-01-02")
		stat, ok := byDay[day]
		if !ok {
			stat = &interfaces.DailyBookingStat{Date: day}
			byDay[day] = stat
		}
		stat.Count++
		if booking.Status == models.BookingStatusCompleted {
			stat.Complete++
			stat.Revenue += booking.TotalAmount
		}
	}
	out := make([]*interfaces.DailyBookingStat, 0, len(byDay))
	for _, stat := range byDay {
		out = append(out, stat)
	}
	return out, nil
}

// memCache is just enough of CacheService for the login rate limiter.
type memCache struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func newMemCache() *memCache {
	return &memCache{counts: make(map[string]int64)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	return interfaces.ErrNotFound
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (c *memCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (c *memCache) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return 0, context.DeadlineExceeded
	}
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memCache) Ping(ctx context.Context) error { return nil }
