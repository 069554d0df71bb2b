package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils"
	"storefront/internal/utils/logger"
)

// TaskHandler handles task processing with improved error handling and logging
type TaskHandler struct {
	db       *gorm.DB
	contacts services.ContactsClient
	logger   *logger.Logger
	now      func() time.Time
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, contacts services.ContactsClient) *TaskHandler {
	return &TaskHandler{
		db:       db,
		contacts: contacts,
		logger:   logger.New("task_handler"),
		now:      time.Now,
	}
}

func decode(t *asynq.Task, v interface{}) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		return fmt.Errorf("invalid %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}

// ProcessContactUpsert pushes one contact to the provider.
func (h *TaskHandler) ProcessContactUpsert(ctx context.Context, t *asynq.Task) error {
	var p ContactUpsertPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	if p.Email == "" {
		return fmt.Errorf("contact upsert without email: %w", asynq.SkipRetry)
	}

	if err := h.contacts.UpsertContact(ctx, services.Contact{Email: p.Email, Attributes: p.Attributes}); err != nil {
		return err
	}
	h.logger.Success("Synced contact %s", p.Email)
	return nil
}

// notify upserts the owner address configured for key with attrs. Disabled keys are skipped.
func (h *TaskHandler) notify(ctx context.Context, key string, attrs map[string]interface{}) error {
	var setting models.NotificationConfig
	res := h.db.WithContext(ctx).Where(&models.NotificationConfig{Key: key}).Where("is_deleted = ?", false).Limit(1).Find(&setting)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		h.logger.Debug("No notification setting for %s", key)
		return nil
	}
	if !setting.Enabled || setting.Email == "" {
		h.logger.Debug("Notifications for %s are off", key)
		return nil
	}

	return h.contacts.UpsertContact(ctx, services.Contact{Email: setting.Email, Attributes: attrs})
}

// ProcessOrderNotification tells the shop owner about a new order.
func (h *TaskHandler) ProcessOrderNotification(ctx context.Context, t *asynq.Task) error {
	var p NotificationPayload
	if err := decode(t, &p); err != nil {
		return err
	}

	var order models.Order
	if err := h.db.WithContext(ctx).Preload("Items").
		Where("id = ? AND is_deleted = ?", p.ID, false).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("Order %s is gone, dropping notification", p.ID)
			return nil
		}
		return err
	}

	return h.notify(ctx, models.NotificationKeyOrders, map[string]interface{}{
		"LAST_ORDER_ID":       order.ID,
		"LAST_ORDER_CUSTOMER": order.CustomerName,
		"LAST_ORDER_PHONE":    order.Phone,
		"LAST_ORDER_TOTAL":    order.Total,
		"LAST_ORDER_ITEMS":    len(order.Items),
	})
}

// ProcessLeadNotification tells the shop owner about a new lead.
func (h *TaskHandler) ProcessLeadNotification(ctx context.Context, t *asynq.Task) error {
	var p NotificationPayload
	if err := decode(t, &p); err != nil {
		return err
	}

	var lead models.Lead
	if err := h.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", p.ID, false).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("Lead %s is gone, dropping notification", p.ID)
			return nil
		}
		return err
	}

	attrs := map[string]interface{}{
		"LAST_LEAD_PHONE":  lead.Phone,
		"LAST_LEAD_NAME":   lead.Name,
		"LAST_LEAD_SOURCE": lead.Source,
	}
	if meta, err := utils.JSONToMap(lead.Metadata); err == nil {
		if page, ok := meta["page"].(string); ok {
			attrs["LAST_LEAD_PAGE"] = page
		}
	}
	return h.notify(ctx, models.NotificationKeyLeads, attrs)
}

// ProcessUserNotification tells the shop owner about a new account.
func (h *TaskHandler) ProcessUserNotification(ctx context.Context, t *asynq.Task) error {
	var p NotificationPayload
	if err := decode(t, &p); err != nil {
		return err
	}

	var user models.User
	if err := h.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", p.ID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("User %s is gone, dropping notification", p.ID)
			return nil
		}
		return err
	}

	attrs := map[string]interface{}{
		"LAST_USER_ID":   user.ID,
		"LAST_USER_NAME": user.Name,
		"LAST_USER_ROLE": string(user.Role),
	}
	if user.Email != nil {
		attrs["LAST_USER_EMAIL"] = *user.Email
	}
	if user.Phone != nil {
		attrs["LAST_USER_PHONE"] = *user.Phone
	}
	return h.notify(ctx, models.NotificationKeyUsers, attrs)
}

// ProcessAuthCleanup hard-deletes expired or revoked sessions and spent reset codes.
func (h *TaskHandler) ProcessAuthCleanup(ctx context.Context, _ *asynq.Task) error {
	now := h.now()
	tx := h.db.WithContext(ctx)

	sessions := tx.Where("expires_at < ? OR is_deleted = ?", now, true).Delete(&models.AuthTransaction{})
	if sessions.Error != nil {
		return h.logger.Error("Failed to clean auth transactions", sessions.Error)
	}

	resets := tx.Where("expires_at < ? OR used = ?", now, true).Delete(&models.PasswordReset{})
	if resets.Error != nil {
		return h.logger.Error("Failed to clean password resets", resets.Error)
	}

	h.logger.Info("Cleanup removed %d sessions and %d reset codes", sessions.RowsAffected, resets.RowsAffected)
	return nil
}
