package interfaces

import (
	"context"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyBookingStat is one day of the admin report aggregation.
type DailyBookingStat struct {
	Date     string  `json:"date" bson:"date"`
	Count    int64   `json:"count" bson:"count"`
	Revenue  float64 `json:"revenue" bson:"revenue"`
	Complete int64   `json:"completed" bson:"completed"`
}

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// UpdateStatusIf applies updates only when the booking is still in the
	// expected status. Returns false when another writer got there first.
	UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, updates map[string]interface{}) (bool, error)

	// Search and filtering
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error)

	// Statistics
	GetTotalCount(ctx context.Context) (int64, error)
	GetCountByStatus(ctx context.Context, status models.BookingStatus) (int64, error)
	GetCompletedRevenue(ctx context.Context) (float64, error)
	GetDailyStats(ctx context.Context, since time.Time) ([]*DailyBookingStat, error)
}
