package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string
type PaymentStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// bookingTransitions holds the legal status transitions. Completed and
// cancelled are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

type Booking struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	DriverID       primitive.ObjectID `json:"driver_id" bson:"driver_id" validate:"required"`
	StartTime      time.Time          `json:"start_time" bson:"start_time" validate:"required"`
	EndTime        time.Time          `json:"end_time" bson:"end_time" validate:"required"`
	PickupLocation string             `json:"pickup_location" bson:"pickup_location" validate:"required"`
	DropLocation   string             `json:"drop_location" bson:"drop_location" validate:"required"`
	VehicleDetails VehicleDetails     `json:"vehicle_details" bson:"vehicle_details"`
	TotalAmount    float64            `json:"total_amount" bson:"total_amount"`
	Status         BookingStatus      `json:"status" bson:"status" default:"pending"`
	PaymentStatus  PaymentStatus      `json:"payment_status" bson:"payment_status" default:"pending"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type VehicleDetails struct {
	Type  string `json:"type" bson:"type"`
	Make  string `json:"make" bson:"make"`
	Model string `json:"model" bson:"model"`
	Year  int    `json:"year" bson:"year"`
	Plate string `json:"plate" bson:"plate"`
}

// IsValidBookingStatus reports whether s is one of the four booking states.
func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in the current status may move
// to the target status.
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[b.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the booking is in a terminal state.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// Duration returns the booked time span.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}
