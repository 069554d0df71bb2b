package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/httperr"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils"
	"storefront/internal/utils/logger"
)

var errTooManyLeads = echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, try again later")

type LeadHandler struct {
	db      *gorm.DB
	limiter LeadLimiter
	log     *logger.Logger
}

// NewLeadHandler builds the lead capture handler; a nil limiter disables throttling.
func NewLeadHandler(db *gorm.DB, limiter LeadLimiter) *LeadHandler {
	return &LeadHandler{db: db, limiter: limiter, log: logger.New("lead_handler")}
}

// Capture records a WhatsApp lead once per phone number.
// @Summary Capture a lead
// @Description Record a lead; posting the same phone again updates the name, message, product and metadata that were sent
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body models.Lead true "Lead"
// @Success 200 {object} map[string]interface{} "success"
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 429 {object} map[string]interface{} "Too many requests"
// @Router /api/v1/leads [post]
func (h *LeadHandler) Capture(c echo.Context) error {
	var lead models.Lead
	if err := c.Bind(&lead); err != nil {
		return httperr.InvalidBody
	}
	lead.ResetIdentity()
	lead.Normalize()
	if lead.Source == "" {
		lead.Source = "whatsapp"
	}
	if err := c.Validate(&lead); err != nil {
		return err
	}

	meta, err := utils.JSONToMap(lead.Metadata)
	if err != nil {
		return services.NewValidationError("metadata", "metadata must be a JSON object")
	}
	if meta == nil {
		meta = map[string]interface{}{}
	}
	client := utils.ClientFromRequest(c.Request())
	meta["ip"] = client.IP
	meta["userAgent"] = client.UserAgent
	if lead.Metadata, err = utils.MapToJSON(meta); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if h.limiter != nil {
		ok, err := h.limiter.Allow(ctx, lead.Phone)
		if err != nil {
			// Redis trouble must not lose leads
			h.log.Warn("Lead limiter unavailable: %v", err)
		} else if !ok {
			return errTooManyLeads
		}
	}

	if lead.ProductID != nil {
		ok, err := services.Exists(ctx, h.db, &models.Product{}, *lead.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return services.NewValidationError("productId", "product does not exist")
		}
	}

	created := false
	err = db.RunInTx(ctx, h.db, func(tx *gorm.DB) error {
		var existing models.Lead
		res := tx.Where("phone = ?", lead.Phone).Limit(1).Find(&existing)
		switch {
		case res.Error != nil:
			return res.Error
		case res.RowsAffected == 0:
			created = true
			return tx.Create(&lead).Error
		case existing.IsDeleted:
			// Revive a deleted lead instead of tripping the unique phone index
			created = true
			lead.ID = existing.ID
			return tx.Model(&existing).Select("is_deleted", "deleted_at", "name", "source", "message", "product_id", "metadata").
				Updates(map[string]interface{}{
					"is_deleted": false,
					"deleted_at": nil,
					"name":       lead.Name,
					"source":     lead.Source,
					"message":    lead.Message,
					"product_id": lead.ProductID,
					"metadata":   lead.Metadata,
				}).Error
		default:
			// A known visitor came back: refresh what they sent, keep the rest
			changes := map[string]interface{}{"metadata": lead.Metadata}
			if lead.Name != "" {
				changes["name"] = lead.Name
			}
			if lead.Message != "" {
				changes["message"] = lead.Message
			}
			if lead.ProductID != nil {
				changes["product_id"] = lead.ProductID
			}
			return tx.Model(&existing).Updates(changes).Error
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request stored the same phone first
			return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
		}
		return err
	}

	if created {
		events.Emit(events.LeadCreated, &lead)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
