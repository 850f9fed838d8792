package utils

import "time"

// Application Constants
const (
	AppName    = "GoPilot"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Booking Constants
	MinBookingDuration = 1 * time.Hour
	MaxBookingDuration = 24 * time.Hour

	// File Upload
	MaxImageSize      = 5 * 1024 * 1024  // 5MB
	MaxDocumentSize   = 10 * 1024 * 1024 // 10MB
	MaxAdditionalDocs = 5

	// Profile photo thumbnail bounds
	ProfilePhotoMaxWidth  = 512
	ProfilePhotoMaxHeight = 512

	// Rate Limiting
	LoginRateLimit  = 5
	LoginRateWindow = 15 * time.Minute
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserNotFound       = "user not found"
	ErrUserExists         = "user already exists"
	ErrInvalidToken       = "invalid token"
	ErrInvalidInput       = "invalid input"
	ErrInvalidRequestBody = "invalid request body"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrFileUploadFailed   = "file upload failed"
	ErrBookingNotFound    = "booking not found"
	ErrDriverNotFound     = "driver not found"
)

// Cache Keys
const (
	CacheUserPrefix      = "user:"
	CacheDriverPrefix    = "driver:"
	CacheBookingPrefix   = "booking:"
	CacheRateLimitPrefix = "rate_limit:"
)

// File Types
var (
	AllowedImageTypes    = []string{"jpg", "jpeg", "png", "webp"}
	AllowedDocumentTypes = []string{"jpg", "jpeg", "png", "webp", "pdf"}
)
