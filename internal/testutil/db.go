// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/db"
	"storefront/internal/models"
)

// NewDB returns a migrated in-memory database that lives for the duration of the test.
// A single connection keeps every statement on the same in-memory schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(sqlite.Open(":memory:"), false)
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Count returns the number of live rows for model.
func Count(t *testing.T, gdb *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Where("is_deleted = ?", false).Count(&n).Error)
	return n
}

// CreateCategory inserts a category fixture.
func CreateCategory(t *testing.T, gdb *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	c.Normalize()
	require.NoError(t, gdb.Create(c).Error)
	return c
}

// CreateProduct inserts a product fixture in category.
func CreateProduct(t *testing.T, gdb *gorm.DB, categoryID, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: 10, CategoryID: categoryID}
	require.NoError(t, gdb.Create(p).Error)
	return p
}
