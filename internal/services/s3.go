package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/utils/logger"
)

// Ensure S3Service implements FileURLGenerator
var _ models.FileURLGenerator = (*S3Service)(nil)

type S3Service struct {
	client        *s3.Client
	bucketName    string
	endpoint      string
	region        string
	provider      string
	publicBaseURL string
	logger        *logger.Logger
}

func NewS3Service(ctx context.Context, cfg config.StorageConfig) (*S3Service, error) {
	log := logger.New("s3_service")

	// Validate required credentials
	if !cfg.S3.Enabled() {
		return nil, log.Error("S3 settings are incomplete ❌", fmt.Errorf("bucket, access key or secret key is empty"))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
			"", // Session token (not needed for basic auth)
		)),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("Unable to load SDK config ❌", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	// Verify credentials by making a test API call
	_, err = client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(cfg.S3.BucketName),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, log.Error("Failed to verify S3 credentials ❌", err)
	}

	log.Success("S3 service initialized successfully ✅")

	return &S3Service{
		client:        client,
		bucketName:    cfg.S3.BucketName,
		endpoint:      strings.TrimRight(cfg.S3.Endpoint, "/"),
		region:        cfg.S3.Region,
		provider:      cfg.Provider,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        log,
	}, nil
}

// ObjectKey builds a collision free key that keeps the original extension.
func ObjectKey(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}

// UploadFile stores file under a generated key and returns the key and its public URL.
func (s *S3Service) UploadFile(ctx context.Context, file []byte, filename string, contentType string) (string, string, error) {
	key := ObjectKey(filename)
	s.logger.Info("📤 Uploading %s as %s", filename, key)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}
	// R2 ignores object ACLs; public access is configured on the bucket.
	if s.provider != "r2" {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", "", s.logger.Error("Failed to upload %s", err, filename)
	}

	url := s.PublicURL(key)
	s.logger.Success("✅ File uploaded successfully: %s", url)
	return key, url, nil
}

// DeleteFile removes the object stored under key.
func (s *S3Service) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.logger.Error("Failed to delete %s", err, key)
	}
	s.logger.Info("🗑️ Deleted object %s", key)
	return nil
}

// PublicURL returns the unsigned URL of key.
func (s *S3Service) PublicURL(key string) string {
	return PublicObjectURL(s.publicBaseURL, s.endpoint, s.bucketName, s.region, key)
}

// PublicObjectURL prefers a CDN base URL, then a custom endpoint, then the AWS virtual host form.
func PublicObjectURL(publicBaseURL, endpoint, bucket, region, key string) string {
	switch {
	case publicBaseURL != "":
		return fmt.Sprintf("%s/%s", publicBaseURL, key)
	case endpoint != "":
		return fmt.Sprintf("%s/%s/%s", endpoint, bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
	}
}

// GetSignedURL implements FileURLGenerator interface
func (s *S3Service) GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	presignedURL, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", s.logger.Error("Failed to generate pre-signed URL ❌", err)
	}

	s.logger.Debug("Generated pre-signed URL for %s", path)
	return presignedURL.URL, nil
}
