package mongodb

import (
	"context"
	"fmt"
	"time"

	"gopilot/internal/models"
	"gopilot/internal/repositories/interfaces"
	"gopilot/internal/services"
	"gopilot/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type driverRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewDriverRepository(db *mongo.Database, cache services.CacheService) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
		cache:      cache,
	}
}

func (r *driverRepository) Create(ctx context.Context, driver *models.Driver) error {
	driver.ID = primitive.NewObjectID()
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, driver)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("driver for user %s: %w", driver.UserID.Hex(), interfaces.ErrDuplicate)
		}
		return fmt.Errorf("failed to create driver: %w", err)
	}

	r.cacheDriver(ctx, driver)

	return nil
}

func (r *driverRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Driver, error) {
	if driver := r.getDriverFromCache(ctx, id.Hex()); driver != nil {
		return driver, nil
	}

	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	r.cacheDriver(ctx, &driver)

	return &driver, nil
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver for user %s: %w", userID.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get driver by user: %w", err)
	}

	r.cacheDriver(ctx, &driver)

	return &driver, nil
}

func (r *driverRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, id.Hex())

	return nil
}

func (r *driverRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("driver %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateDriverCache(ctx, id.Hex())

	return nil
}

func (r *driverRepository) UpdateAvailability(ctx context.Context, id primitive.ObjectID, available bool) error {
	return r.Update(ctx, id, map[string]interface{}{
		"is_available": available,
	})
}

func (r *driverRepository) UpdateDocumentStatus(ctx context.Context, id primitive.ObjectID, status models.DocumentStatus, reason string) error {
	updates := map[string]interface{}{
		"document_status":  status,
		"rejection_reason": reason,
	}
	if status == models.DocumentStatusApproved {
		now := time.Now()
		updates["verified_at"] = &now
	}
	return r.Update(ctx, id, updates)
}

func (r *driverRepository) GetPendingVerifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	filter := bson.M{"document_status": models.DocumentStatusPending}
	return r.findDriversWithFilter(ctx, filter, params)
}

func (r *driverRepository) List(ctx context.Context, filter *interfaces.DriverFilter, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	query := bson.M{}
	if filter != nil {
		if filter.VehicleType != "" {
			query["vehicle_types"] = filter.VehicleType
		}
		if filter.Available != nil {
			query["is_available"] = *filter.Available
		}
	}
	return r.findDriversWithFilter(ctx, query, params)
}

func (r *driverRepository) GetTotalCount(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *driverRepository) GetCountByDocumentStatus(ctx context.Context, status models.DocumentStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"document_status": status})
}

func (r *driverRepository) findDriversWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Driver, int64, error) {
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"license_number", "vehicle_types"})
		if len(searchFilter) > 0 {
			filter = bson.M{
				"$and": []bson.M{filter, searchFilter},
			}
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []*models.Driver
	for cursor.Next(ctx) {
		var driver models.Driver
		if err := cursor.Decode(&driver); err != nil {
			return nil, 0, fmt.Errorf("failed to decode driver: %w", err)
		}
		drivers = append(drivers, &driver)
	}

	return drivers, total, nil
}

func (r *driverRepository) cacheDriver(ctx context.Context, driver *models.Driver) {
	if r.cache != nil {
		r.cache.Set(ctx, utils.CacheDriverPrefix+driver.ID.Hex(), driver, 15*time.Minute)
	}
}

func (r *driverRepository) getDriverFromCache(ctx context.Context, driverID string) *models.Driver {
	if r.cache == nil {
		return nil
	}

	var driver models.Driver
	if err := r.cache.Get(ctx, utils.CacheDriverPrefix+driverID, &driver); err != nil {
		return nil
	}

	return &driver
}

func (r *driverRepository) invalidateDriverCache(ctx context.Context, driverID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheDriverPrefix+driverID)
	}
}
