package services

import "errors"

var (
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPhoneTaken is returned when registering with a phone already in use.
	ErrPhoneTaken = errors.New("phone already registered")

	// ErrTooManyAttempts is returned when the login rate limit is exceeded.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")

	// ErrForbidden is returned when the caller may not act on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrDriverExists is returned on duplicate driver registration for a user.
	ErrDriverExists = errors.New("driver profile already exists for this user")

	// ErrDriverUnavailable is returned when booking a driver who is not
	// accepting bookings.
	ErrDriverUnavailable = errors.New("driver is not available")

	// ErrInvalidBookingStatus is returned for a status outside the enum.
	ErrInvalidBookingStatus = errors.New("invalid booking status")

	// ErrInvalidTransition is returned for a legal status that the booking
	// cannot reach from its current state.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrBookingConflict is returned when a concurrent writer changed the
	// booking status first.
	ErrBookingConflict = errors.New("booking was modified concurrently, retry")

	// ErrInvalidTimeRange is returned when a booking's end does not follow
	// its start.
	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
