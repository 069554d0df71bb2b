package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-advanced-admin/admin"
	admingorm "github.com/go-advanced-admin/orm-gorm"
	adminecho "github.com/go-advanced-admin/web-echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"storefront/internal/api/httperr"
	authmw "storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/internal/utils"
	console "storefront/internal/utils/logger"
)

// Options carries the optional collaborators of the API. Nil members disable their feature.
type Options struct {
	Storage handlers.Storage
	Signer  handlers.ImageSigner
	Limiter handlers.LeadLimiter
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
	tokens *utils.TokenManager
	auth   *authmw.AuthMiddleware
	opts   Options
}

var log = console.New("API-Server")

// NewServer @title Storefront API
// @version 1.0
// @description Catalog, orders, leads and WhatsApp welcome API for the storefront.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func NewServer(cfg *config.Config, db *gorm.DB, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true

	// Create custom validator
	e.Validator = validator.NewValidator()

	// Configure middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: cfg.Server.RequestTimeout,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	e.Use(middleware.BodyLimit("12M"))
	if cfg.Server.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))))
	}

	e.HTTPErrorHandler = httperr.Handler

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
		tokens: tokens,
		auth:   authmw.NewAuthMiddleware(authmw.NewJWTResolver(db, tokens)),
		opts:   opts,
	}

	if opts.Storage != nil {
		models.RegisterFileURLGenerator(opts.Storage, cfg.Storage.SignedURLTTL)
	}

	s.seed()

	if err := s.setupAdminPanel(); err != nil {
		_ = log.Error("Admin panel disabled", err)
	}

	// Register routes
	s.registerRoutes()
	return s
}

func (s *Server) seed() {
	if err := models.SeedNotificationConfigs(s.db); err != nil {
		log.Warn("Warning: Failed to seed notification settings: %v", err)
	} else {
		log.Success("Successfully seeded notification settings")
	}

	created, err := models.SeedAdmin(s.db, s.config.Admin, s.config.Auth.BcryptCost)
	switch {
	case errors.Is(err, models.ErrAdminSeedIncomplete):
		log.Warn("No admin account exists and none is configured: %v", err)
	case err != nil:
		log.Warn("Warning: Failed to create admin: %v", err)
	case created:
		log.Success("Successfully created admin")
	}
}

// adminPanelModels are browsable in the admin panel.
var adminPanelModels = []interface{}{
	&models.Category{},
	&models.Supplier{},
	&models.Product{},
	&models.Ad{},
	&models.Order{},
	&models.Lead{},
	&models.WhatsappConfig{},
	&models.NotificationConfig{},
	&models.File{},
}

func (s *Server) setupAdminPanel() error {
	gormIntegrator := admingorm.NewIntegrator(s.db)
	echoIntegrator := adminecho.NewIntegrator(s.echo.Group("", s.auth.Middleware()))

	// Only ADMIN sessions get in
	permissionChecker := func(request admin.PermissionRequest, ctx interface{}) (bool, error) {
		c, ok := ctx.(echo.Context)
		if !ok {
			return false, nil
		}
		return authmw.Authorize(authmw.CurrentSession(c), models.UserRoleAdmin) == nil, nil
	}

	adminPanel, err := admin.NewPanel(gormIntegrator, echoIntegrator, permissionChecker, nil)
	if err != nil {
		return fmt.Errorf("failed to create admin panel: %w", err)
	}

	app, err := adminPanel.RegisterApp("Storefront", "Storefront Admin Panel", nil)
	if err != nil {
		return fmt.Errorf("failed to register admin app: %w", err)
	}

	for _, model := range adminPanelModels {
		if _, err := app.RegisterModel(model, nil); err != nil {
			log.Warn("Admin panel skips %T: %v", model, err)
		}
	}
	return nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health check endpoint
func (s *Server) healthCheck(c echo.Context) error {
	status := "healthy"
	code := http.StatusOK
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{
		"status":  status,
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}
