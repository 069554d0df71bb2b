package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"storefront/internal/config"
	"storefront/internal/utils/logger"
)

var queues = map[string]int{
	QueueCritical: 6, // High priority
	QueueDefault:  3, // Medium priority
	QueueLow:      1, // Low priority
}

// Server handles task processing
type Server struct {
	server      *asynq.Server
	handler     *TaskHandler
	logger      *logger.Logger
	concurrency int
}

// NewServer creates a new task processing server
func NewServer(redis config.RedisConfig, worker config.WorkerConfig, handler *TaskHandler, log *logger.Logger) *Server {
	concurrency := worker.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	server := asynq.NewServer(
		RedisOpt(redis),
		asynq.Config{
			Concurrency: concurrency,
			Queues:      queues,
			// Enable strict priority, meaning higher priority queues are processed first
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				_ = log.Error("Task %s failed", err, task.Type())
			}),
		},
	)

	return &Server{
		server:      server,
		handler:     handler,
		logger:      log,
		concurrency: concurrency,
	}
}

// Mux routes every task type to its handler.
func (s *Server) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeContactUpsert, s.handler.ProcessContactUpsert)
	mux.HandleFunc(TypeOrderNotification, s.handler.ProcessOrderNotification)
	mux.HandleFunc(TypeLeadNotification, s.handler.ProcessLeadNotification)
	mux.HandleFunc(TypeUserNotification, s.handler.ProcessUserNotification)
	mux.HandleFunc(TypeAuthCleanup, s.handler.ProcessAuthCleanup)
	return mux
}

// Start starts the task processing server
func (s *Server) Start() error {
	s.logger.Info("starting task processing server concurrency %d queues %v", s.concurrency, queues)

	if err := s.server.Start(s.Mux()); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the task processing server
func (s *Server) Shutdown() {
	s.logger.Info("shutting down task processing server")
	s.server.Shutdown()
}
