package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"storefront/docs/swagger"
	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/services"
	"storefront/internal/tasks"
	"storefront/internal/tasks/rate"
	"storefront/internal/utils/crypto"
	"storefront/internal/utils/logger"
)

// 🚀 Main function
// @title Storefront API
// @version 1.0
// @description API documentation for the storefront
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := logger.New("storefront")

	// check if .env file exists
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	dbInstance, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection: %v", err)
		}
	}()

	var opts api.Options

	// Object storage is optional; uploads answer 500 without it
	if cfg.Storage.S3.Enabled() {
		s3Service, err := services.NewS3Service(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		opts.Storage = s3Service
	} else {
		logger.Warn("S3 is not configured, file uploads are disabled")
	}

	if signer, err := crypto.NewImageAuthSigner(cfg.Crypto.ImagePublicKey, cfg.Crypto.ImagePrivateKey, cfg.Crypto.ImageTokenTTL); err != nil {
		logger.Warn("Image auth disabled: %v", err)
	} else {
		opts.Signer = signer
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	opts.Limiter = rate.NewSlidingWindowLimiter(redisClient, rate.Config{
		Name:      "leads",
		RateLimit: rate.RateLimit{Window: cfg.Leads.RateWindow, Max: cfg.Leads.RateMax},
	})

	// Background tasks
	taskClient := tasks.NewTaskClient(cfg.Redis)
	defer taskClient.Close()
	tasks.RegisterEventHandlers(taskClient)

	contacts := services.NewHTTPContactsClient(cfg.Contacts, nil)
	taskServer := tasks.NewServer(cfg.Redis, cfg.Worker, tasks.NewTaskHandler(dbInstance, contacts), logger)
	if err := taskServer.Start(); err != nil {
		_ = logger.Error("Task server error", err)
	}

	taskScheduler := tasks.NewScheduler(cfg.Redis, cfg.Scheduler, logger)
	if err := taskScheduler.Start(); err != nil {
		_ = logger.Error("Task scheduler error", err)
	}

	// Swagger documentation
	swagger.SwaggerInfo.Title = "Storefront API Documentation"
	swagger.SwaggerInfo.Description = "API documentation for the storefront"
	swagger.SwaggerInfo.Version = "1.0"

	// Initialize API server
	apiServer := api.NewServer(cfg, dbInstance, opts)
	go func() {
		logger.Success("API server started on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the servers
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		_ = logger.Error("Failed to shutdown API server", err)
	}

	taskScheduler.Stop()
	taskServer.Shutdown()

	logger.Info("Servers shutdown gracefully")
}
