package tasks

import (
	"context"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"storefront/internal/events"
	"storefront/internal/models"
)

type recordingEnqueuer struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, task.Type())
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (r *recordingEnqueuer) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func TestRegisterEventHandlers(t *testing.T) {
	events.Reset()
	t.Cleanup(events.Reset)

	rec := &recordingEnqueuer{}
	RegisterEventHandlers(rec)

	email := "awa@example.com"
	events.Emit(events.UserCreated, &models.User{Name: "Awa", Email: &email})
	events.Emit(events.UserCreated, &models.User{Name: "Phone only"})
	events.Wait()
	assert.ElementsMatch(t, []string{TypeUserNotification, TypeContactUpsert, TypeUserNotification}, rec.seen())

	order := &models.Order{CustomerName: "Awa", Email: email}
	order.ID = "order-1"
	events.Emit(events.OrderCreated, order)
	events.Wait()
	assert.ElementsMatch(t, []string{TypeUserNotification, TypeContactUpsert, TypeUserNotification, TypeOrderNotification, TypeContactUpsert}, rec.seen())

	lead := &models.Lead{Phone: "770000000"}
	lead.ID = "lead-1"
	events.Emit(events.LeadCreated, lead)
	events.Wait()
	assert.Contains(t, rec.seen(), TypeLeadNotification)
}
