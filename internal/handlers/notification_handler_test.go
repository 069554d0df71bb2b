package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/testutil"
)

func TestNotificationSettingsUpsert(t *testing.T) {
	gdb := testutil.NewDB(t)
	require.NoError(t, models.SeedNotificationConfigs(gdb))

	e := newEcho()
	h := NewNotificationHandler(gdb)
	e.GET("/notification-settings", h.List)
	e.PUT("/notification-settings", h.Upsert)

	rec := serve(e, request{method: http.MethodPut, path: "/notification-settings", role: "ADMIN", body: `{"settings":[
		{"key":"orders","email":"Shop@Example.com","enabled":true},
		{"key":"leads","phone":"77 000 00 00","enabled":true}
	]}`})
	requireStatus(t, http.StatusOK, rec)

	var orders, leads, users models.NotificationConfig
	require.NoError(t, gdb.Where(&models.NotificationConfig{Key: "orders"}).First(&orders).Error)
	require.NoError(t, gdb.Where(&models.NotificationConfig{Key: "leads"}).First(&leads).Error)
	require.NoError(t, gdb.Where(&models.NotificationConfig{Key: "users"}).First(&users).Error)

	assert.True(t, orders.Enabled)
	assert.Equal(t, "shop@example.com", orders.Email)
	assert.True(t, leads.Enabled)
	assert.Equal(t, "770000000", leads.Phone)
	assert.False(t, users.Enabled)
	assert.EqualValues(t, 3, testutil.Count(t, gdb, &models.NotificationConfig{}))

	rec = serve(e, request{method: http.MethodGet, path: "/notification-settings", role: "ADMIN"})
	requireStatus(t, http.StatusOK, rec)
}

func TestNotificationSettingsRejectsWholeBatch(t *testing.T) {
	gdb := testutil.NewDB(t)
	require.NoError(t, models.SeedNotificationConfigs(gdb))

	e := newEcho()
	e.PUT("/notification-settings", NewNotificationHandler(gdb).Upsert)

	rec := serve(e, request{method: http.MethodPut, path: "/notification-settings", role: "ADMIN", body: `{"settings":[
		{"key":"orders","enabled":true},
		{"key":"invoices","enabled":true}
	]}`})
	requireStatus(t, http.StatusBadRequest, rec)

	var orders models.NotificationConfig
	require.NoError(t, gdb.Where(&models.NotificationConfig{Key: "orders"}).First(&orders).Error)
	assert.False(t, orders.Enabled)

	rec = serve(e, request{method: http.MethodPut, path: "/notification-settings", body: `{"settings":[{"key":"orders","enabled":true}]}`})
	requireStatus(t, http.StatusUnauthorized, rec)
}
