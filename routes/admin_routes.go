package routes

import (
	"gopilot/internal/handlers"
	"gopilot/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up the management routes
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminHandler, authRequired gin.HandlerFunc) {
	admin := r.Group("/admin")
	admin.Use(authRequired, middleware.AdminRequired())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/drivers/pending", adminHandler.ListPendingDrivers)
		admin.PUT("/drivers/:id/verify", adminHandler.VerifyDriver)

		admin.GET("/bookings", adminHandler.ListBookings)

		admin.GET("/reports/overview", adminHandler.GetOverview)
		admin.GET("/reports/bookings", adminHandler.GetBookingReport)
	}
}
