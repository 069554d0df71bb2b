package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/api/middleware"
	"storefront/internal/models"
	"storefront/internal/utils/crypto"
)

// ImageSigner issues upload credentials for the image service.
type ImageSigner interface {
	Sign() crypto.ImageAuth
}

type ImageHandler struct {
	signer ImageSigner
}

func NewImageHandler(signer ImageSigner) *ImageHandler {
	return &ImageHandler{signer: signer}
}

// Auth returns a signed token for direct browser uploads.
// @Summary Image upload credentials
// @Description Returns token, expire and signature for the image service
// @Tags files
// @Produce json
// @Success 200 {object} crypto.ImageAuth
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 503 {object} map[string]interface{} "Image service not configured"
// @Router /api/v1/images/auth [get]
func (h *ImageHandler) Auth(c echo.Context) error {
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}
	if h.signer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image service not configured")
	}
	return c.JSON(http.StatusOK, h.signer.Sign())
}
