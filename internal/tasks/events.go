package tasks

import (
	"context"

	"github.com/hibiken/asynq"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/utils/logger"
)

// RegisterEventHandlers turns domain events into background tasks.
func RegisterEventHandlers(enqueuer Enqueuer) {
	log := logger.New("task_events")

	enqueue := func(task *asynq.Task, err error) {
		if err != nil {
			_ = log.Error("Failed to build task", err)
			return
		}
		if _, err := enqueuer.EnqueueContext(context.Background(), task); err != nil {
			_ = log.Error("Failed to enqueue %s", err, task.Type())
		}
	}

	events.On(events.UserCreated, func(data interface{}) {
		user, ok := data.(*models.User)
		if !ok {
			return
		}
		enqueue(NewUserNotificationTask(user.ID))
		if user.Email == nil || *user.Email == "" {
			return
		}
		enqueue(NewContactUpsertTask(ContactUpsertPayload{
			Email: *user.Email,
			Attributes: map[string]interface{}{
				"NAME":   user.Name,
				"SOURCE": "signup",
			},
		}))
	})

	events.On(events.OrderCreated, func(data interface{}) {
		order, ok := data.(*models.Order)
		if !ok {
			return
		}
		enqueue(NewOrderNotificationTask(order.ID))
		if order.Email != "" {
			enqueue(NewContactUpsertTask(ContactUpsertPayload{
				Email: order.Email,
				Attributes: map[string]interface{}{
					"NAME":   order.CustomerName,
					"PHONE":  order.Phone,
					"SOURCE": "order",
				},
			}))
		}
	})

	events.On(events.LeadCreated, func(data interface{}) {
		lead, ok := data.(*models.Lead)
		if !ok {
			return
		}
		enqueue(NewLeadNotificationTask(lead.ID))
	})

	// The provider's automation mails the code when RESET_CODE changes.
	events.On(events.PasswordReset, func(data interface{}) {
		reset, ok := data.(*models.PasswordReset)
		if !ok || reset.User == nil || reset.User.Email == nil || *reset.User.Email == "" {
			return
		}
		enqueue(NewContactUpsertTask(ContactUpsertPayload{
			Email: *reset.User.Email,
			Attributes: map[string]interface{}{
				"RESET_CODE":       reset.Code,
				"RESET_EXPIRES_AT": reset.ExpiresAt.Unix(),
			},
		}))
	})
}
