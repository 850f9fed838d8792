package routes

import (
	"gopilot/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupUserRoutes sets up routes for user profiles
func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler, authRequired gin.HandlerFunc) {
	users := r.Group("/users")
	users.Use(authRequired)
	{
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", userHandler.UpdateProfile)
	}
}
