package models_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/testutil"
)

type signerFunc func(ctx context.Context, path string, ttl time.Duration) (string, error)

func (f signerFunc) GetSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return f(ctx, path, ttl)
}

func TestLoadedFilesCarrySignedURL(t *testing.T) {
	gdb := testutil.NewDB(t)
	require.NoError(t, gdb.Create(&models.File{Path: "uploads/a.png", Name: "a.png", Size: 3, Type: "image/png"}).Error)

	var gotTTL time.Duration
	models.RegisterFileURLGenerator(signerFunc(func(_ context.Context, path string, ttl time.Duration) (string, error) {
		gotTTL = ttl
		return "https://signed.example/" + path, nil
	}), 0)
	t.Cleanup(func() { models.RegisterFileURLGenerator(nil, 0) })

	var f models.File
	require.NoError(t, gdb.First(&f).Error)
	assert.Equal(t, "https://signed.example/uploads/a.png", f.SignedURL)
	assert.Equal(t, models.DefaultSignedURLTTL, gotTTL)
}

func TestSigningFailureKeepsFileReadable(t *testing.T) {
	gdb := testutil.NewDB(t)
	require.NoError(t, gdb.Create(&models.File{Path: "uploads/b.png", Name: "b.png", Size: 3, Type: "image/png"}).Error)

	models.RegisterFileURLGenerator(signerFunc(func(context.Context, string, time.Duration) (string, error) {
		return "", errors.New("storage down")
	}), time.Minute)
	t.Cleanup(func() { models.RegisterFileURLGenerator(nil, 0) })

	var f models.File
	require.NoError(t, gdb.First(&f).Error)
	assert.Equal(t, "b.png", f.Name)
	assert.Empty(t, f.SignedURL)
}
