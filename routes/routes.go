package routes

import (
	"gopilot/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the route tree mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	User    *handlers.UserHandler
	Driver  *handlers.DriverHandler
	Booking *handlers.BookingHandler
	Admin   *handlers.AdminHandler
	Upload  *handlers.UploadHandler
}

// Setup mounts the full API under /api. authRequired resolves the
// bearer token and loads the caller; role checks stack on top of it per
// group.
func Setup(router *gin.Engine, h *Handlers, authRequired gin.HandlerFunc) {
	api := router.Group("/api")

	SetupAuthRoutes(api, h.Auth, authRequired)
	SetupUserRoutes(api, h.User, authRequired)
	SetupDriverRoutes(api, h.Driver, authRequired)
	SetupBookingRoutes(api, h.Booking, authRequired)
	SetupAdminRoutes(api, h.Admin, authRequired)
	SetupUploadRoutes(api, h.Upload, authRequired)
}
