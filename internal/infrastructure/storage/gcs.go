package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/option"

	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

// GCS keeps blobs as objects in a Google Cloud Storage bucket.
type GCS struct {
	Client *storage.Client
	Bucket string
}

var _ repo.BlobStore = (*GCS)(nil)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

func (g *GCS) Write(ctx context.Context, p string, data []byte) error {
	wc := g.Client.Bucket(g.Bucket).Object(p).NewWriter(ctx)
	wc.ContentType = mimetype.Detect(data).String()
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		_ = wc.Close()
		return fmt.Errorf("gcs write %s: %w", p, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", p, err)
	}
	return nil
}

func (g *GCS) Read(ctx context.Context, p string) ([]byte, error) {
	rc, err := g.Client.Bucket(g.Bucket).Object(p).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, repo.ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (g *GCS) Exists(ctx context.Context, p string) (bool, error) {
	_, err := g.Client.Bucket(g.Bucket).Object(p).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (g *GCS) Delete(ctx context.Context, p string) error {
	err := g.Client.Bucket(g.Bucket).Object(p).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}
