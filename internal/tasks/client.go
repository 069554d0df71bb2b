package tasks

import (
	"context"

	"github.com/hibiken/asynq"

	"storefront/internal/config"
	"storefront/internal/utils/logger"
)

// Enqueuer is the part of asynq.Client the event handlers need.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedisOpt maps the redis settings onto asynq's connection options.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// TaskClient enqueues background tasks
type TaskClient struct {
	client *asynq.Client
	logger *logger.Logger
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(cfg config.RedisConfig) *TaskClient {
	return &TaskClient{
		client: asynq.NewClient(RedisOpt(cfg)),
		logger: logger.New("TASKS"),
	}
}

func (c *TaskClient) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return nil, c.logger.Error("Failed to enqueue %s", err, task.Type())
	}
	c.logger.Debug("Enqueued %s as %s on %s", task.Type(), info.ID, info.Queue)
	return info, nil
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}
