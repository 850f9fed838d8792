package routes

import (
	"gopilot/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up routes for authentication
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, authRequired gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	protected := r.Group("/auth")
	protected.Use(authRequired)
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/change-password", authHandler.ChangePassword)
	}
}
