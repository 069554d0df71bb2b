package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/testutil"
)

func TestOrderCreateSnapshotsPrices(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho()
	e.POST("/orders", NewOrderHandler(gdb).Create)

	cat := testutil.CreateCategory(t, gdb, "Shoes")
	runner := testutil.CreateProduct(t, gdb, cat.ID, "Runner", 19.99)
	sandal := testutil.CreateProduct(t, gdb, cat.ID, "Sandal", 5)

	userID := uuid.NewString()
	body := fmt.Sprintf(`{"customerName":"Awa","phone":"77 000 00 00","status":"DELIVERED","total":1,
		"items":[{"productId":%q,"quantity":2,"unitPrice":0.01},{"productId":%q,"quantity":1}]}`, runner.ID, sandal.ID)
	rec := serve(e, request{method: http.MethodPost, path: "/orders", body: body, role: "USER", headers: map[string]string{"X-User": userID}})
	requireStatus(t, http.StatusCreated, rec)

	var order models.Order
	require.NoError(t, gdb.Preload("Items").First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 44.98, order.Total, 0.001)
	assert.Equal(t, "770000000", order.Phone)
	require.NotNil(t, order.UserID)
	assert.Equal(t, userID, *order.UserID)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		if item.ProductID == runner.ID {
			assert.InDelta(t, 19.99, item.UnitPrice, 0.001)
		}
	}
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho()
	e.POST("/orders", NewOrderHandler(gdb).Create)

	cat := testutil.CreateCategory(t, gdb, "Shoes")
	runner := testutil.CreateProduct(t, gdb, cat.ID, "Runner", 10)

	body := fmt.Sprintf(`{"customerName":"Awa","phone":"770000000",
		"items":[{"productId":%q,"quantity":1},{"productId":%q,"quantity":1}]}`, runner.ID, uuid.NewString())
	rec := serve(e, request{method: http.MethodPost, path: "/orders", body: body})
	requireStatus(t, http.StatusBadRequest, rec)
	resp := decodeMap(t, rec)
	assert.Equal(t, "product does not exist", resp["error"])
	assert.Contains(t, resp["fields"], "items[1].productId")

	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.Order{}))
	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.OrderItem{}))
}

func TestOrderAnonymousHasNoUser(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho()
	e.POST("/orders", NewOrderHandler(gdb).Create)

	cat := testutil.CreateCategory(t, gdb, "Shoes")
	runner := testutil.CreateProduct(t, gdb, cat.ID, "Runner", 10)

	body := fmt.Sprintf(`{"customerName":"Awa","phone":"770000000","userId":%q,"items":[{"productId":%q,"quantity":3}]}`, uuid.NewString(), runner.ID)
	rec := serve(e, request{method: http.MethodPost, path: "/orders", body: body})
	requireStatus(t, http.StatusCreated, rec)

	var order models.Order
	require.NoError(t, gdb.First(&order).Error)
	assert.Nil(t, order.UserID)
	assert.InDelta(t, 30.0, order.Total, 0.001)
}

func TestOrderUpdateStatus(t *testing.T) {
	gdb := testutil.NewDB(t)
	e := newEcho()
	e.PUT("/orders/:id/status", NewOrderHandler(gdb).UpdateStatus)

	order := &models.Order{CustomerName: "Awa", Phone: "770000000", Status: models.OrderStatusPending}
	require.NoError(t, gdb.Create(order).Error)

	rec := serve(e, request{method: http.MethodPut, path: "/orders/" + order.ID + "/status", body: `{"status":"SHIPPED"}`})
	requireStatus(t, http.StatusUnauthorized, rec)

	rec = serve(e, request{method: http.MethodPut, path: "/orders/" + order.ID + "/status", body: `{"status":"LOST"}`, role: "ADMIN"})
	requireStatus(t, http.StatusBadRequest, rec)

	rec = serve(e, request{method: http.MethodPut, path: "/orders/" + order.ID + "/status", body: `{"status":"SHIPPED"}`, role: "ADMIN"})
	requireStatus(t, http.StatusOK, rec)
	assert.Equal(t, "SHIPPED", decodeMap(t, rec)["status"])

	rec = serve(e, request{method: http.MethodPut, path: "/orders/" + uuid.NewString() + "/status", body: `{"status":"SHIPPED"}`, role: "ADMIN"})
	requireStatus(t, http.StatusNotFound, rec)
}
