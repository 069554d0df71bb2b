package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils/logger"
)

// MaxUploadSize caps a single upload.
const MaxUploadSize = 10 << 20

type UploadHandler struct {
	db      *gorm.DB
	files   services.BaseService[models.File]
	storage Storage
	log     *logger.Logger
}

func NewUploadHandler(db *gorm.DB, storage Storage) *UploadHandler {
	return &UploadHandler{
		db:      db,
		files:   services.NewBaseService[models.File](db),
		storage: storage,
		log:     logger.New("upload_handler"),
	}
}

// UploadFile handles file uploads to object storage
// @Summary Upload a file
// @Description Upload a file to object storage and record it
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} models.File
// @Failure 400 {object} map[string]interface{} "Validation error or file not found"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/files/upload [post]
func (h *UploadHandler) UploadFile(c echo.Context) error {
	session := middleware.CurrentSession(c)
	if err := middleware.Authorize(session, models.UserRoleAdmin); err != nil {
		return err
	}

	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return echo.NewHTTPError(http.StatusBadRequest, "Content-Type must be multipart/form-data")
	}

	if h.storage == nil {
		return h.log.Error("Upload rejected", errors.New("storage not configured"))
	}

	// Get file from request
	file, err := c.FormFile("file")
	if err != nil {
		h.log.Warn("Failed to get file from request: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	if file.Size > MaxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "File is too large")
	}

	src, err := file.Open()
	if err != nil {
		return h.log.Error("Failed to open file", err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return h.log.Error("Failed to read file", err)
	}

	// Trust the bytes over the client's header
	detected := mimetype.Detect(content).String()

	key, url, err := h.storage.UploadFile(c.Request().Context(), content, file.Filename, detected)
	if err != nil {
		return err
	}

	fileModel := &models.File{
		Path:   key,
		URL:    url,
		Name:   file.Filename,
		Size:   int64(len(content)),
		Type:   detected,
		UserID: &session.UserID,
	}

	// Insert file into database
	if err := h.db.WithContext(c.Request().Context()).Create(fileModel).Error; err != nil {
		if cleanupErr := h.storage.DeleteFile(c.Request().Context(), key); cleanupErr != nil {
			h.log.Warn("Orphaned object %s: %v", key, cleanupErr)
		}
		return h.log.Error("Failed to insert file into database", err)
	}

	h.log.Success("File uploaded successfully: %s", url)
	return c.JSON(http.StatusCreated, fileModel)
}

// DeleteFile removes the stored object and soft-deletes its row. Unknown ids are a no-op.
// @Summary Delete a file
// @Description Delete a file from object storage and the database
// @Tags files
// @Param id path string true "File ID"
// @Success 204 "No content"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/files/{id} [delete]
func (h *UploadHandler) DeleteFile(c echo.Context) error {
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}

	id := c.Param("id")
	if !services.IsValidID(id) {
		return c.NoContent(http.StatusNoContent)
	}

	ctx := c.Request().Context()
	file, err := models.GetFileByID(id, h.db.WithContext(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		return err
	}

	if h.storage != nil {
		if err := h.storage.DeleteFile(ctx, file.Path); err != nil {
			return err
		}
	}

	if err := h.files.Delete(ctx, file.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
