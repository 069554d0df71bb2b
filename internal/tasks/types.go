package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task Types
const (
	TypeContactUpsert     = "contacts:upsert"
	TypeOrderNotification = "notifications:order"
	TypeLeadNotification  = "notifications:lead"
	TypeUserNotification  = "notifications:user"
	TypeAuthCleanup       = "auth:cleanup"
)

// Task Queues
const (
	QueueCritical = "critical" // Owner notifications
	QueueDefault  = "default"  // Contact sync
	QueueLow      = "low"      // Cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)

// ContactUpsertPayload syncs one customer into the contacts provider.
type ContactUpsertPayload struct {
	Email      string                 `json:"email"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// NotificationPayload points at the record an owner notification is about.
type NotificationPayload struct {
	ID string `json:"id"`
}

func newTask(typ string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return asynq.NewTask(typ, data, opts...), nil
}

func NewContactUpsertTask(p ContactUpsertPayload) (*asynq.Task, error) {
	return newTask(TypeContactUpsert, p,
		asynq.Queue(QueueDefault), asynq.MaxRetry(RetryMax), asynq.Timeout(TimeoutShort))
}

func NewOrderNotificationTask(orderID string) (*asynq.Task, error) {
	return newTask(TypeOrderNotification, NotificationPayload{ID: orderID},
		asynq.Queue(QueueCritical), asynq.MaxRetry(RetryDefault), asynq.Timeout(TimeoutShort))
}

func NewLeadNotificationTask(leadID string) (*asynq.Task, error) {
	return newTask(TypeLeadNotification, NotificationPayload{ID: leadID},
		asynq.Queue(QueueCritical), asynq.MaxRetry(RetryDefault), asynq.Timeout(TimeoutShort))
}

func NewUserNotificationTask(userID string) (*asynq.Task, error) {
	return newTask(TypeUserNotification, NotificationPayload{ID: userID},
		asynq.Queue(QueueCritical), asynq.MaxRetry(RetryDefault), asynq.Timeout(TimeoutShort))
}

func NewAuthCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeAuthCleanup, nil,
		asynq.Queue(QueueLow), asynq.MaxRetry(RetryMin), asynq.Timeout(TimeoutMedium))
}
