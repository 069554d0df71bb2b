package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/handlers"
	"storefront/internal/utils/logger"
)

func SetupUploadRoutes(api *echo.Group, db *gorm.DB, storage handlers.Storage, signer handlers.ImageSigner) {
	log := logger.New("upload_routes")

	uploadHandler := handlers.NewUploadHandler(db, storage)
	imageHandler := handlers.NewImageHandler(signer)

	fileGroup := api.Group("/files")
	fileGroup.POST("/upload", uploadHandler.UploadFile)
	fileGroup.DELETE("/:id", uploadHandler.DeleteFile)

	api.GET("/images/auth", imageHandler.Auth)

	if storage == nil {
		log.Warn("Object storage not configured, uploads will fail")
	}
	log.Success("Upload routes initialized successfully")
}
