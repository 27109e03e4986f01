package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mealio/ordering-api/internal/config"
)

// s3API is the subset of the S3 client used by S3Store, kept narrow for
// testing.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements ImageStore on an S3-compatible bucket (AWS S3 or MinIO
// via a custom endpoint).
type S3Store struct {
	client s3API
	bucket string
	logger *slog.Logger
}

// NewS3Store builds an S3-backed image store from the storage configuration.
// Static credentials and a custom endpoint are optional; without them the
// default AWS credential chain applies.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client: client,
		bucket: cfg.S3Bucket,
		logger: logger.With(slog.String("component", "s3_store")),
	}, nil
}

// Ensure S3Store implements ImageStore
var _ ImageStore = (*S3Store)(nil)

// Put implements ImageStore.Put.
func (s *S3Store) Put(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("failed to put object",
			slog.String("error", err.Error()),
			slog.String("path", path))
		return fmt.Errorf("failed to store image %s: %w", path, err)
	}

	s.logger.Debug("image stored",
		slog.String("path", path),
		slog.Int("size", len(data)))
	return nil
}

// Delete implements ImageStore.Delete.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		s.logger.Error("failed to delete object",
			slog.String("error", err.Error()),
			slog.String("path", path))
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	return nil
}
