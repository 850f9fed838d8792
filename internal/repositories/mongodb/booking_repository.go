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

type bookingRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewBookingRepository(db *mongo.Database, cache services.CacheService) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
		cache:      cache,
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	r.cacheBooking(ctx, booking)

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if booking := r.getBookingFromCache(ctx, id.Hex()); booking != nil {
		return booking, nil
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	r.cacheBooking(ctx, &booking)

	return &booking, nil
}

func (r *bookingRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", id.Hex(), interfaces.ErrNotFound)
	}

	r.invalidateBookingCache(ctx, id.Hex())

	return nil
}

// UpdateStatusIf conditions the write on the current status so two
// concurrent transitions cannot both win.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, id primitive.ObjectID, from, to models.BookingStatus, updates map[string]interface{}) (bool, error) {
	set := bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range updates {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	r.invalidateBookingCache(ctx, id.Hex())

	return result.MatchedCount > 0, nil
}

func (r *bookingRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"user_id": userID}, params)
}

func (r *bookingRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"driver_id": driverID}, params)
}

func (r *bookingRepository) GetByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{"status": status}, params)
}

func (r *bookingRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return r.findBookingsWithFilter(ctx, bson.M{}, params)
}

func (r *bookingRepository) GetTotalCount(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *bookingRepository) GetCountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

func (r *bookingRepository) GetCompletedRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.BookingStatusCompleted}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total_amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Revenue float64 `bson:"revenue"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode revenue: %w", err)
		}
	}

	return result.Revenue, nil
}

func (r *bookingRepository) GetDailyStats(ctx context.Context, since time.Time) ([]*interfaces.DailyBookingStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"created_at": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"count": bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$eq": bson.A{"$status", models.BookingStatusCompleted}},
					1, 0,
				},
			}},
			"revenue": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$eq": bson.A{"$status", models.BookingStatusCompleted}},
					"$total_amount", 0,
				},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []*interfaces.DailyBookingStat
	for cursor.Next(ctx) {
		var row struct {
			Date      string  `bson:"_id"`
			Count     int64   `bson:"count"`
			Completed int64   `bson:"completed"`
			Revenue   float64 `bson:"revenue"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode daily stats: %w", err)
		}
		stats = append(stats, &interfaces.DailyBookingStat{
			Date:     row.Date,
			Count:    row.Count,
			Complete: row.Completed,
			Revenue:  row.Revenue,
		})
	}

	return stats, nil
}

func (r *bookingRepository) findBookingsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	for cursor.Next(ctx) {
		var booking models.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, 0, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, total, nil
}

func (r *bookingRepository) cacheBooking(ctx context.Context, booking *models.Booking) {
	if r.cache != nil {
		r.cache.Set(ctx, utils.CacheBookingPrefix+booking.ID.Hex(), booking, 5*time.Minute)
	}
}

func (r *bookingRepository) getBookingFromCache(ctx context.Context, bookingID string) *models.Booking {
	if r.cache == nil {
		return nil
	}

	var booking models.Booking
	if err := r.cache.Get(ctx, utils.CacheBookingPrefix+bookingID, &booking); err != nil {
		return nil
	}

	return &booking
}

func (r *bookingRepository) invalidateBookingCache(ctx context.Context, bookingID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheBookingPrefix+bookingID)
	}
}
