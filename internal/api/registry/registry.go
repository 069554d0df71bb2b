package registry

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/controllers"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils"
)

var (
	publicCatalog = controllers.Policy{Read: controllers.Public, Write: models.UserRoleAdmin}
	adminOnly     = controllers.Policy{Read: models.UserRoleAdmin, Write: models.UserRoleAdmin}
)

// AdMissingProductMessage is returned when an ad points at a product that does not exist.
const AdMissingProductMessage = "Le produit sélectionné n'existe pas."

func optionalID(id *string) string {
	if id == nil {
		return ""
	}
	return *id
}

// RegisterCRUDRoutes registers CRUD routes for all models - godoc
// @Summary Register CRUD routes for all models
// @Description Register CRUD routes for all models
// @Accept json
// @Produce json
func RegisterCRUDRoutes(g *echo.Group, db *gorm.DB, bcryptCost int) {
	// Products
	products := controllers.NewBaseController(services.NewBaseService[models.Product](db), controllers.Options[models.Product]{
		Policy: publicCatalog,
		References: []controllers.Reference[models.Product]{
			{Field: "categoryId", Model: &models.Category{}, Value: func(p *models.Product) string { return p.CategoryID }, Message: "category does not exist"},
			{Field: "supplierId", Model: &models.Supplier{}, Value: func(p *models.Product) string { return optionalID(p.SupplierID) }, Message: "supplier does not exist"},
		},
		// supplier stays admin-only
		Includes: []string{"category"},
	})
	// @Summary List products
	// @Description Get a page of products; any non reserved query parameter filters on the column of the same name
	// @Tags products
	// @Produce json
	// @Param page query int false "Page number"
	// @Param limit query int false "Page size (max 100)"
	// @Param include query string false "Relations to preload: category"
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 500 {object} map[string]interface{} "Internal server error"
	// @Router /api/v1/products [get]
	// @Summary Get product
	// @Tags products
	// @Produce json
	// @Param id path string true "Product ID"
	// @Success 200 {object} models.Product
	// @Failure 404 {object} map[string]interface{} "Not found"
	// @Router /api/v1/products/{id} [get]
	// @Summary Create product
	// @Tags products
	// @Accept json
	// @Produce json
	// @Param product body models.Product true "Product object"
	// @Success 201 {object} models.Product
	// @Failure 400 {object} map[string]interface{} "Bad request or unknown category"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/products [post]
	// @Summary Update product
	// @Tags products
	// @Accept json
	// @Produce json
	// @Param id path string true "Product ID"
	// @Param product body models.Product true "Product object"
	// @Success 200 {object} models.Product
	// @Failure 400 {object} map[string]interface{} "Bad request"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Failure 404 {object} map[string]interface{} "Not found"
	// @Router /api/v1/products/{id} [put]
	// @Summary Delete product
	// @Tags products
	// @Param id path string true "Product ID"
	// @Success 204 "No content"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/products/{id} [delete]
	products.RegisterRoutes(g, "/products")

	// Categories
	categories := controllers.NewBaseController(services.NewBaseService[models.Category](db), controllers.Options[models.Category]{
		Policy:   publicCatalog,
		Includes: []string{"products"},
	})
	// @Summary List categories
	// @Tags categories
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Router /api/v1/categories [get]
	// @Summary Create category
	// @Tags categories
	// @Accept json
	// @Produce json
	// @Param category body models.Category true "Category object"
	// @Success 201 {object} models.Category
	// @Failure 400 {object} map[string]interface{} "Bad request or duplicate slug"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/categories [post]
	categories.RegisterRoutes(g, "/categories")

	// Ads
	ads := controllers.NewBaseController(services.NewBaseService[models.Ad](db), controllers.Options[models.Ad]{
		Policy: publicCatalog,
		References: []controllers.Reference[models.Ad]{
			{Field: "productId", Model: &models.Product{}, Value: func(a *models.Ad) string { return optionalID(a.ProductID) }, Message: AdMissingProductMessage},
		},
		Includes: []string{"product", "product.category"},
	})
	// @Summary List ads
	// @Tags ads
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Router /api/v1/ads [get]
	// @Summary Create ad
	// @Tags ads
	// @Accept json
	// @Produce json
	// @Param ad body models.Ad true "Ad object"
	// @Success 201 {object} models.Ad
	// @Failure 400 {object} map[string]interface{} "Bad request or unknown product"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/ads [post]
	ads.RegisterRoutes(g, "/ads")

	// Suppliers
	suppliers := controllers.NewBaseController(services.NewBaseService[models.Supplier](db), controllers.Options[models.Supplier]{
		Policy:   adminOnly,
		Includes: []string{"products"},
	})
	// @Summary List suppliers
	// @Tags suppliers
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/suppliers [get]
	suppliers.RegisterRoutes(g, "/suppliers")

	// Users
	users := controllers.NewBaseController(services.NewBaseService[models.User](db), controllers.Options[models.User]{
		Policy: adminOnly,
		BeforeCreate: func(_ echo.Context, u *models.User) error {
			if u.PlainPassword == "" {
				return services.NewValidationError("password", "password is required")
			}
			hashed, err := utils.HashPassword(u.PlainPassword, bcryptCost)
			if err != nil {
				return err
			}
			u.Password = hashed
			u.PlainPassword = ""
			if u.Role == "" {
				u.Role = models.UserRoleUser
			}
			return nil
		},
		BeforeUpdate: func(_ echo.Context, u *models.User) ([]string, error) {
			if u.Role == "" {
				u.Role = models.UserRoleUser
			}
			if u.PlainPassword == "" {
				return []string{"password"}, nil
			}
			hashed, err := utils.HashPassword(u.PlainPassword, bcryptCost)
			if err != nil {
				return nil, err
			}
			u.Password = hashed
			u.PlainPassword = ""
			return nil, nil
		},
	})
	// @Summary List users
	// @Tags users
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/users [get]
	// @Summary Create user
	// @Description Creates an account; password is hashed and never returned
	// @Tags users
	// @Accept json
	// @Produce json
	// @Param user body models.User true "User object"
	// @Success 201 {object} models.User
	// @Failure 400 {object} map[string]interface{} "Bad request or duplicate email/phone"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/users [post]
	// @Summary Update user
	// @Description The stored password is kept unless a new one is sent
	// @Tags users
	// @Accept json
	// @Produce json
	// @Param id path string true "User ID"
	// @Param user body models.User true "User object"
	// @Success 200 {object} models.User
	// @Router /api/v1/users/{id} [put]
	users.RegisterRoutes(g, "/users")

	// Orders: creation and status changes live in handlers.OrderHandler
	orders := controllers.NewBaseController(services.NewBaseService[models.Order](db), controllers.Options[models.Order]{
		Policy:   adminOnly,
		Includes: []string{"items", "items.product", "user"},
	})
	// @Summary List orders
	// @Tags orders
	// @Produce json
	// @Param status query string false "Filter by status"
	// @Param include query string false "Relations to preload, e.g. items,items.product"
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/orders [get]
	// @Summary Get order
	// @Tags orders
	// @Produce json
	// @Param id path string true "Order ID"
	// @Success 200 {object} models.Order
	// @Failure 404 {object} map[string]interface{} "Not found"
	// @Router /api/v1/orders/{id} [get]
	// @Summary Delete order
	// @Tags orders
	// @Param id path string true "Order ID"
	// @Success 204 "No content"
	// @Router /api/v1/orders/{id} [delete]
	orders.RegisterRoutes(g, "/orders", "GET", "DELETE")

	// Leads: capture lives in handlers.LeadHandler
	leads := controllers.NewBaseController(services.NewBaseService[models.Lead](db), controllers.Options[models.Lead]{
		Policy:   adminOnly,
		Includes: []string{"product"},
	})
	// @Summary List leads
	// @Tags leads
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/leads [get]
	leads.RegisterRoutes(g, "/leads", "GET", "DELETE")

	// WhatsApp configs
	whatsapp := controllers.NewBaseController(services.NewBaseService[models.WhatsappConfig](db), controllers.Options[models.WhatsappConfig]{
		Policy: adminOnly,
		BeforeUpdate: func(_ echo.Context, _ *models.WhatsappConfig) ([]string, error) {
			// activation goes through the activate route only
			return []string{"is_active"}, nil
		},
		BeforeCreate: func(_ echo.Context, w *models.WhatsappConfig) error {
			w.IsActive = false
			return nil
		},
	})
	// @Summary List WhatsApp configs
	// @Tags whatsapp
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/whatsapp-configs [get]
	whatsapp.RegisterRoutes(g, "/whatsapp-configs")

	// Files: upload and delete live in handlers.UploadHandler
	files := controllers.NewBaseController(services.NewBaseService[models.File](db), controllers.Options[models.File]{
		Policy:   adminOnly,
		Includes: []string{"user"},
	})
	// @Summary List files
	// @Description Get a list of all files
	// @Tags files
	// @Produce json
	// @Success 200 {object} map[string]interface{} "data, total, page, limit"
	// @Failure 401 {object} map[string]interface{} "Unauthorized"
	// @Router /api/v1/files [get]
	// @Summary Get file
	// @Description Get a file by ID
	// @Tags files
	// @Produce json
	// @Param id path string true "File ID"
	// @Success 200 {object} models.File
	// @Failure 404 {object} map[string]interface{} "Not found"
	// @Router /api/v1/files/{id} [get]
	files.RegisterRoutes(g, "/files", "GET")
}
