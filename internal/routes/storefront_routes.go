package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/handlers"
)

// SetupStorefrontRoutes mounts the routes that do more than plain CRUD.
func SetupStorefrontRoutes(api *echo.Group, db *gorm.DB, limiter handlers.LeadLimiter) {
	orderHandler := handlers.NewOrderHandler(db)
	api.POST("/orders", orderHandler.Create)
	api.PUT("/orders/:id/status", orderHandler.UpdateStatus)

	leadHandler := handlers.NewLeadHandler(db, limiter)
	api.POST("/leads", leadHandler.Capture)

	whatsappHandler := handlers.NewWhatsappHandler(db)
	api.GET("/whatsapp-configs/active", whatsappHandler.Active)
	api.PUT("/whatsapp-configs/:id/activate", whatsappHandler.Activate)
	api.PUT("/whatsapp-configs/:id/welcome", whatsappHandler.ToggleWelcome)
	api.POST("/whatsapp/welcome", whatsappHandler.Welcome)

	notificationHandler := handlers.NewNotificationHandler(db)
	api.GET("/notification-settings", notificationHandler.List)
	api.PUT("/notification-settings", notificationHandler.Upsert)
}
