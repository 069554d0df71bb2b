package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewBaseService[models.Category](gdb)
	ctx := context.Background()

	c := &models.Category{Name: "Shoes"}
	require.NoError(t, svc.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shoes", got.Name)
	assert.Equal(t, "shoes", got.Slug)
}

func TestGetUnknownOrMalformedID(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewBaseService[models.Category](gdb)

	_, err := svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersSortsAndPaginates(t *testing.T) {
	gdb := testutil.NewDB(t)
	cat := testutil.CreateCategory(t, gdb, "Bags")
	testutil.CreateProduct(t, gdb, cat.ID, "Alpha", 10)
	testutil.CreateProduct(t, gdb, cat.ID, "Beta", 20)
	featured := testutil.CreateProduct(t, gdb, cat.ID, "Gamma", 30)
	require.NoError(t, gdb.Model(featured).Update("featured", true).Error)

	svc := NewBaseService[models.Product](gdb)
	ctx := context.Background()

	items, total, err := svc.List(ctx, ListQuery{Sort: "price", Order: "asc", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "Beta", items[1].Name)

	items, total, err = svc.List(ctx, ListQuery{Filters: map[string]string{"featured": "true", "bogus": "x"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Gamma", items[0].Name)

	items, _, err = svc.List(ctx, ListQuery{Filters: map[string]string{"categoryId": cat.ID}, Includes: []string{"category"}})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Bags", items[0].Category.Name)
}

func TestUpdateKeepsImmutableColumns(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewBaseService[models.Category](gdb)
	ctx := context.Background()

	c := testutil.CreateCategory(t, gdb, "Hats")

	patch := &models.Category{Name: "Caps", Slug: "caps"}
	patch.ID = uuid.NewString()
	patch.IsDeleted = true
	require.NoError(t, svc.Update(ctx, c.ID, patch))

	assert.Equal(t, c.ID, patch.ID)
	assert.Equal(t, "Caps", patch.Name)
	assert.Equal(t, c.CreatedAt.Unix(), patch.CreatedAt.Unix())

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "caps", got.Slug)
}

func TestUpdateMissing(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewBaseService[models.Category](gdb)

	err := svc.Update(context.Background(), uuid.NewString(), &models.Category{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 0, testutil.Count(t, gdb, &models.Category{}))
}

func TestDeleteIsIdempotent(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewBaseService[models.Category](gdb)
	ctx := context.Background()

	c := testutil.CreateCategory(t, gdb, "Toys")

	require.NoError(t, svc.Delete(ctx, c.ID))
	require.NoError(t, svc.Delete(ctx, c.ID))
	require.NoError(t, svc.Delete(ctx, "garbage"))

	_, err := svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var raw models.Category
	require.NoError(t, gdb.First(&raw, "id = ?", c.ID).Error)
	assert.True(t, raw.IsDeleted)
	assert.NotNil(t, raw.DeletedAt)
}

func TestExists(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewBaseService[models.Ad](gdb)
	ctx := context.Background()

	cat := testutil.CreateCategory(t, gdb, "Books")
	p := testutil.CreateProduct(t, gdb, cat.ID, "Novel", 12)

	ok, err := svc.Exists(ctx, &models.Product{}, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, &models.Product{}, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Exists(ctx, &models.Product{}, "42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "category", singular("categories"))
	assert.Equal(t, "whatsapp config", singular("whatsapp_configs"))
	assert.Equal(t, "product", singular("products"))
}
