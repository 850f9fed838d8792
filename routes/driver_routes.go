package routes

import (
	"gopilot/internal/handlers"
	"gopilot/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDriverRoutes sets up routes for driver profiles and availability
func SetupDriverRoutes(r *gin.RouterGroup, driverHandler *handlers.DriverHandler, authRequired gin.HandlerFunc) {
	drivers := r.Group("/drivers")
	drivers.Use(authRequired)
	{
		// Any authenticated user can browse drivers or apply to become one.
		drivers.GET("", driverHandler.ListDrivers)
		drivers.GET("/:id", driverHandler.GetDriver)
		drivers.POST("/register", driverHandler.Register)
	}

	// Driver-only routes operate on the caller's own profile.
	own := r.Group("/drivers")
	own.Use(authRequired, middleware.DriverRequired())
	{
		own.GET("/me", driverHandler.GetOwnProfile)
		own.PUT("/profile", driverHandler.UpdateProfile)
		own.PUT("/toggle-availability", driverHandler.ToggleAvailability)
	}
}
