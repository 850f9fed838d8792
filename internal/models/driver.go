package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

type Driver struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Experience      int                `json:"experience" bson:"experience"`
	LicenseNumber   string             `json:"license_number" bson:"license_number" validate:"required"`
	LicenseExpiry   time.Time          `json:"license_expiry" bson:"license_expiry" validate:"required"`
	HourlyRate      float64            `json:"hourly_rate" bson:"hourly_rate" validate:"required,gt=0"`
	Rating          float64            `json:"rating" bson:"rating" default:"0"`
	TotalRatings    int64              `json:"total_ratings" bson:"total_ratings" default:"0"`
	IsAvailable     bool               `json:"is_available" bson:"is_available" default:"true"`
	VehicleTypes    []string           `json:"vehicle_types" bson:"vehicle_types"`
	Documents       DriverDocuments    `json:"documents" bson:"documents"`
	DocumentStatus  DocumentStatus     `json:"document_status" bson:"document_status" default:"pending"`
	RejectionReason string             `json:"rejection_reason,omitempty" bson:"rejection_reason"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
	VerifiedAt      *time.Time         `json:"verified_at,omitempty" bson:"verified_at"`
}

type DriverDocuments struct {
	LicenseImage   string   `json:"license_image" bson:"license_image"`
	ProfilePhoto   string   `json:"profile_photo" bson:"profile_photo"`
	AdditionalDocs []string `json:"additional_docs" bson:"additional_docs"`
}

// HasVehicleType reports whether the driver serves the given vehicle type.
func (d *Driver) HasVehicleType(vehicleType string) bool {
	for _, vt := range d.VehicleTypes {
		if vt == vehicleType {
			return true
		}
	}
	return false
}
