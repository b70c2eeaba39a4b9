// Package storage provides the blob store backends photos are written to.
package storage

import (
	"context"
	"fmt"

	"github.com/oksasatya/photo-gallery/config"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

const (
	DriverLocal = "local"
	DriverGCS   = "gcs"
	DriverS3    = "s3"
)

// Open returns the blob store selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config) (repo.BlobStore, error) {
	switch cfg.StorageDriver {
	case "", DriverLocal:
		return NewLocal(cfg.StorageRoot)
	case DriverGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("storage: GCS_BUCKET is required for driver %q", DriverGCS)
		}
		client, err := NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("storage: gcs client: %w", err)
		}
		return NewGCS(client, cfg.GCSBucket), nil
	case DriverS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("storage: S3_BUCKET is required for driver %q", DriverS3)
		}
		client, err := NewS3Client(ctx, S3Options{
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return NewS3(client, cfg.S3Bucket), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
