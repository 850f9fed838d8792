package routes

import (
	"gopilot/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes sets up routes for the booking lifecycle
func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, authRequired gin.HandlerFunc) {
	bookings := r.Group("/bookings")
	bookings.Use(authRequired)
	{
		bookings.POST("", bookingHandler.CreateBooking)
		bookings.GET("/user", bookingHandler.GetUserBookings)
		bookings.GET("/driver", bookingHandler.GetDriverBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PUT("/:id/status", bookingHandler.UpdateStatus)
	}
}
