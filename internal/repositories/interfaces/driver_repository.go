package interfaces

import (
	"context"

	"gopilot/internal/models"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverFilter narrows driver directory listings. Nil/empty fields are
// ignored; Available is a pointer so "explicitly false" can be expressed.
type DriverFilter struct {
	VehicleType string
	Available   *bool
}

type DriverRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Availability
	UpdateAvailability(ctx context.Context, id primitive.ObjectID, available bool) error

	// Document verification
	UpdateDocumentStatus(ctx context.Context, id primitive.ObjectID, status models.DocumentStatus, reason string) error
	GetPendingVerifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error)

	// Search and filtering
	List(ctx context.Context, filter *DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error)

	// Statistics
	GetTotalCount(ctx context.Context) (int64, error)
	GetCountByDocumentStatus(ctx context.Context, status models.DocumentStatus) (int64, error)
}
