package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/api/httperr"
	"storefront/internal/api/middleware"
	"storefront/internal/api/validator"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/utils/logger"
)

var errOrderNotFound = &services.NotFoundError{Resource: "order"}

type OrderHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db, log: logger.New("order_handler")}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create places an order. Prices come from the catalog, never from the client.
// @Summary Place an order
// @Description Creates the order and its items in one transaction; the caller's session is attached when present
// @Tags orders
// @Accept json
// @Produce json
// @Param order body models.Order true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} map[string]interface{} "Validation error or unknown product"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var order models.Order
	if err := c.Bind(&order); err != nil {
		return httperr.InvalidBody
	}
	order.ResetIdentity()
	order.Normalize()
	order.Status = models.OrderStatusPending
	order.Total = 0
	order.UserID = nil
	order.User = nil
	for i := range order.Items {
		order.Items[i].ResetIdentity()
		order.Items[i].OrderID = ""
		order.Items[i].Product = nil
	}

	if err := c.Validate(&order); err != nil {
		return err
	}

	if session := middleware.CurrentSession(c); session != nil {
		order.UserID = &session.UserID
	}

	ctx := c.Request().Context()
	err := db.RunInTx(ctx, h.db, func(tx *gorm.DB) error {
		ids := make([]string, 0, len(order.Items))
		for i, item := range order.Items {
			if !services.IsValidID(item.ProductID) {
				return services.NewValidationError(fmt.Sprintf("items[%d].productId", i), "product does not exist")
			}
			ids = append(ids, item.ProductID)
		}

		var products []models.Product
		if err := tx.Where("id IN ? AND is_deleted = ? AND archived = ?", ids, false, false).Find(&products).Error; err != nil {
			return err
		}
		prices := make(map[string]float64, len(products))
		for _, p := range products {
			prices[p.ID] = p.Price
		}

		var total float64
		for i := range order.Items {
			item := &order.Items[i]
			price, ok := prices[item.ProductID]
			if !ok {
				return services.NewValidationError(fmt.Sprintf("items[%d].productId", i), "product does not exist")
			}
			item.UnitPrice = price
			total += price * float64(item.Quantity)
		}
		order.Total = roundCents(total)

		return tx.Create(&order).Error
	})
	if err != nil {
		return err
	}

	h.log.Info("Order %s placed: %d items, total %.2f", order.ID, len(order.Items), order.Total)
	events.Emit(events.OrderCreated, &order)

	return c.JSON(http.StatusCreated, order)
}

// UpdateStatus moves an order to a new status.
// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body validator.OrderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Router /api/v1/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req validator.OrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperr.InvalidBody
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := middleware.Authorize(middleware.CurrentSession(c), models.UserRoleAdmin); err != nil {
		return err
	}

	id := c.Param("id")
	if !services.IsValidID(id) {
		return errOrderNotFound
	}

	ctx := c.Request().Context()
	res := h.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("status", req.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errOrderNotFound
	}

	var order models.Order
	if err := h.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errOrderNotFound
		}
		return err
	}

	events.Emit(events.OrderUpdated, &order)
	return c.JSON(http.StatusOK, order)
}
