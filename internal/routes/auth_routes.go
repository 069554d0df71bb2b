package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/middleware"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/utils"
)

// SetupAuthRoutes mounts the auth routes on api. The session middleware must already run on api.
func SetupAuthRoutes(api *echo.Group, db *gorm.DB, tokens *utils.TokenManager, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, tokens, cfg.Auth)

	auth := api.Group("/auth")

	// Public routes (no auth required)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/password-reset", authHandler.RequestPasswordReset)
	auth.POST("/password-reset/verify", authHandler.VerifyResetCode)

	// Protected auth routes (require a session)
	protected := auth.Group("", middleware.RequireSession())
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/me", authHandler.GetMe)
	protected.PUT("/password", authHandler.ChangePassword)
}
