package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/db"
	"storefront/internal/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

func (h *NotificationHandler) list(tx *gorm.DB) ([]models.NotificationConfig, error) {
	var configs []models.NotificationConfig
	err := tx.Where("is_deleted = ?", false).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&configs).Error
	return configs, err
}

// List returns the notification settings of every key.
// @Summary List notification settings
// @Tags notifications
// @Produce json
// @Success 200 {array} models.NotificationConfig
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/v1/notification-settings [get]
func (h *NotificationHandler) List(c echo.Context) error {
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}

	configs, err := h.list(h.db.WithContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, configs)
}

// Upsert writes every submitted setting in one transaction.
// @Summary Update notification settings
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body validator.NotificationSettingsRequest true "Settings"
// @Success 200 {array} models.NotificationConfig
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/v1/notification-settings [put]
func (h *NotificationHandler) Upsert(c echo.Context) error {
	var req validator.NotificationSettingsRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	for i := range req.Settings {
		s := &req.Settings[i]
		row := models.NotificationConfig{Key: s.Key, Email: s.Email, Phone: s.Phone}
		row.Normalize()
		s.Key, s.Email, s.Phone = row.Key, row.Email, row.Phone
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}

	var configs []models.NotificationConfig
	err := db.RunInTx(c.Request().Context(), h.db, func(tx *gorm.DB) error {
		for _, s := range req.Settings {
			var row models.NotificationConfig
			if err := tx.Where(&models.NotificationConfig{Key: s.Key}).
				Assign(map[string]interface{}{
					"email":      s.Email,
					"phone":      s.Phone,
					"enabled":    s.Enabled,
					"is_deleted": false,
					"deleted_at": nil,
				}).
				FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		var err error
		configs, err = h.list(tx)
		return err
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, configs)
}
