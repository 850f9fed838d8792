package handlers

import (
	"net/http"
	"time"

	"gopilot/internal/utils"
	"gopilot/pkg/storage"

	"github.com/gin-gonic/gin"
)

// imageKitAuthTTL bounds how long a browser can hold signed upload
// parameters before they expire.
const imageKitAuthTTL = 10 * time.Minute

type UploadHandler struct {
	imageKit *storage.ImageKitStorage
}

// NewUploadHandler takes the ImageKit backend when it is the configured
// provider, nil otherwise.
func NewUploadHandler(imageKit *storage.ImageKitStorage) *UploadHandler {
	return &UploadHandler{imageKit: imageKit}
}

// ImageKitAuth returns short-lived signed parameters for direct browser
// uploads to ImageKit.
func (h *UploadHandler) ImageKitAuth(c *gin.Context) {
	if h.imageKit == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "direct uploads are not configured")
		return
	}

	utils.SuccessResponse(c, "upload auth generated", h.imageKit.ClientAuthParams(imageKitAuthTTL))
}
