package routes

import (
	"gopilot/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupUploadRoutes sets up routes for direct upload authentication
func SetupUploadRoutes(r *gin.RouterGroup, uploadHandler *handlers.UploadHandler, authRequired gin.HandlerFunc) {
	r.GET("/imagekit/auth", authRequired, uploadHandler.ImageKitAuth)
}
