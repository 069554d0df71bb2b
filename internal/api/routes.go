package api

import (
	_ "storefront/docs/swagger"
	"storefront/internal/api/registry"
	"storefront/internal/routes"

	echoSwagger "github.com/swaggo/echo-swagger"
)

func (s *Server) registerRoutes() {
	// Health check
	// @Summary Health check
	// @Description Check if the server and its database are up
	// @Produce json
	// @Success 200 {object} map[string]interface{} "OK"
	// @Failure 503 {object} map[string]interface{} "Database unreachable"
	// @Router /health [get]
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	api := s.echo.Group("/api/v1")
	api.Use(s.auth.Middleware())

	routes.SetupAuthRoutes(api, s.db, s.tokens, s.config)
	routes.SetupStorefrontRoutes(api, s.db, s.opts.Limiter)
	routes.SetupUploadRoutes(api, s.db, s.opts.Storage, s.opts.Signer)

	// Register CRUD routes for all models
	registry.RegisterCRUDRoutes(api, s.db, s.config.Auth.BcryptCost)
}
