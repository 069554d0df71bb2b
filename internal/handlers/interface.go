package handlers

import (
	"context"
	"time"
)

// Storage is the object store behind file uploads
type Storage interface {
	UploadFile(ctx context.Context, file []byte, filename string, contentType string) (string, string, error)
	DeleteFile(ctx context.Context, key string) error
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
}

// LeadLimiter throttles lead capture per phone number.
type LeadLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
