package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicObjectURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		want     string
	}{
		{"cdn", "https://cdn.example", "https://r2.example", "https://cdn.example/a.png"},
		{"endpoint", "", "https://r2.example", "https://r2.example/media/a.png"},
		{"aws", "", "", "https://media.s3.eu-west-1.amazonaws.com/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicObjectURL(tt.base, tt.endpoint, "media", "eu-west-1", "a.png"))
		})
	}
}

func TestObjectKeyKeepsExtension(t *testing.T) {
	a := ObjectKey("Photo.JPG")
	b := ObjectKey("Photo.JPG")
	assert.Equal(t, ".jpg", filepath.Ext(a))
	assert.NotEqual(t, a, b)
}
