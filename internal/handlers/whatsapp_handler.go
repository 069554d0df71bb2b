package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/db"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils"
	"storefront/internal/utils/logger"
)

var errConfigNotFound = &services.NotFoundError{Resource: "whatsapp config"}

type WhatsappHandler struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewWhatsappHandler(db *gorm.DB) *WhatsappHandler {
	return &WhatsappHandler{db: db, log: logger.New("whatsapp_handler"), now: time.Now}
}

// Active returns the WhatsApp number the storefront should link to.
// @Summary Active WhatsApp config
// @Tags whatsapp
// @Produce json
// @Success 200 {object} models.WhatsappConfig
// @Failure 404 {object} map[string]interface{} "No active config"
// @Router /api/v1/whatsapp-configs/active [get]
func (h *WhatsappHandler) Active(c echo.Context) error {
	cfg, err := models.ActiveWhatsappConfig(h.db.WithContext(c.Request().Context()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errConfigNotFound
		}
		return err
	}
	return c.JSON(http.StatusOK, cfg)
}

func loadConfig(tx *gorm.DB, id string) (*models.WhatsappConfig, error) {
	if !services.IsValidID(id) {
		return nil, errConfigNotFound
	}
	cfg := &models.WhatsappConfig{}
	res := tx.Where("id = ? AND is_deleted = ?", id, false).Limit(1).Find(cfg)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errConfigNotFound
	}
	return cfg, nil
}

// Activate makes one config active and every other one inactive, atomically.
// @Summary Activate a WhatsApp config
// @Tags whatsapp
// @Produce json
// @Param id path string true "Config ID"
// @Success 200 {object} models.WhatsappConfig
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/v1/whatsapp-configs/{id}/activate [put]
func (h *WhatsappHandler) Activate(c echo.Context) error {
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}

	var cfg *models.WhatsappConfig
	err := db.RunInTx(c.Request().Context(), h.db, func(tx *gorm.DB) error {
		var err error
		if cfg, err = loadConfig(tx, c.Param("id")); err != nil {
			return err
		}
		if err := tx.Model(&models.WhatsappConfig{}).
			Where("id <> ? AND is_active = ?", cfg.ID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(cfg).Update("is_active", true).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.log.Info("Activated WhatsApp config %s", cfg.ID)
	return c.JSON(http.StatusOK, cfg)
}

// ToggleWelcome flips whether new visitors get the welcome message.
// @Summary Toggle the welcome message
// @Tags whatsapp
// @Produce json
// @Param id path string true "Config ID"
// @Success 200 {object} models.WhatsappConfig
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/v1/whatsapp-configs/{id}/welcome [put]
func (h *WhatsappHandler) ToggleWelcome(c echo.Context) error {
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}

	var cfg *models.WhatsappConfig
	err := db.RunInTx(c.Request().Context(), h.db, func(tx *gorm.DB) error {
		var err error
		if cfg, err = loadConfig(tx, c.Param("id")); err != nil {
			return err
		}
		if err := tx.Model(&models.WhatsappConfig{}).Where("id = ?", cfg.ID).
			Update("welcome_enabled", gorm.Expr("NOT welcome_enabled")).Error; err != nil {
			return err
		}
		return tx.First(cfg, "id = ?", cfg.ID).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cfg)
}

// Welcome registers a visitor for the welcome message once per phone number.
// @Summary Register a welcome message
// @Description Returns sent=true only the first time a phone is seen while welcome messages are enabled
// @Tags whatsapp
// @Accept json
// @Produce json
// @Param request body validator.WelcomeRequest true "Visitor phone"
// @Success 200 {object} map[string]interface{} "success"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Router /api/v1/whatsapp/welcome [post]
func (h *WhatsappHandler) Welcome(c echo.Context) error {
	var req validator.WelcomeRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	req.Phone = utils.NormalizePhone(req.Phone)
	if err := c.Validate(&req); err != nil {
		return err
	}

	response := map[string]interface{}{"success": true, "sent": false}

	var cfg *models.WhatsappConfig
	err := db.RunInTx(c.Request().Context(), h.db, func(tx *gorm.DB) error {
		var err error
		cfg, err = models.ActiveWhatsappConfig(tx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cfg = nil
			return nil
		}
		if err != nil || !cfg.WelcomeEnabled {
			return err
		}

		var n int64
		if err := tx.Model(&models.WelcomeMessage{}).Where("phone = ?", req.Phone).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		if err := tx.Create(&models.WelcomeMessage{Phone: req.Phone, ConfigID: cfg.ID, SentAt: h.now()}).Error; err != nil {
			return err
		}
		response["sent"] = true
		return nil
	})
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	if response["sent"] == true {
		response["message"] = cfg.WelcomeMessage
		response["phoneNumber"] = cfg.PhoneNumber
	}

	return c.JSON(http.StatusOK, response)
}
