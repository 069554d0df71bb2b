package tasks

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"storefront/internal/config"
	"storefront/internal/utils/logger"
)

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler *asynq.Scheduler
	config    config.SchedulerConfig
	logger    *logger.Logger
}

// NewScheduler creates a new task scheduler
func NewScheduler(redis config.RedisConfig, cfg config.SchedulerConfig, logger *logger.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(RedisOpt(redis), &asynq.SchedulerOpts{})

	return &Scheduler{
		scheduler: scheduler,
		config:    cfg,
		logger:    logger,
	}
}

// Start registers the periodic tasks and starts the scheduler in the background
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Start()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks
func (s *Scheduler) registerTasks() error {
	if err := s.RegisterCustomTask(s.config.CleanupCron, NewAuthCleanupTask()); err != nil {
		return err
	}
	s.logger.Info("registered all periodic tasks")
	return nil
}

// RegisterCustomTask registers a periodic task after checking its spec
func (s *Scheduler) RegisterCustomTask(spec string, task *asynq.Task, opts ...asynq.Option) error {
	next, err := NextRun(spec, time.Now())
	if err != nil {
		return err
	}

	entryID, err := s.scheduler.Register(spec, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to register custom task: %w", err)
	}

	s.logger.Info("registered custom task %s %s %s, next run %s", task.Type(), spec, entryID, next.Format(time.RFC3339))
	return nil
}
