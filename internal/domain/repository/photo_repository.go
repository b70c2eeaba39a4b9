package repository

import (
	"context"
	"time"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
)

// PhotoFilter narrows Count. Zero value counts every photo.
type PhotoFilter struct {
	OwnerID      string
	CreatedSince *time.Time
}

// PhotoRepository stores photo metadata. Read methods fill Photo.OwnerName.
type PhotoRepository interface {
	Create(ctx context.Context, p *entity.Photo) error
	GetByID(ctx context.Context, id string) (*entity.Photo, error)
	// List returns photos ordered by created_at desc.
	List(ctx context.Context, limit, offset int) ([]entity.Photo, error)
	// ListByOwner is List restricted to one owner. limit <= 0 returns every row.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]entity.Photo, error)
	Update(ctx context.Context, p *entity.Photo) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	Count(ctx context.Context, f PhotoFilter) (int64, error)
}
