package application

import (
	"context"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
)

// PhotoIndex mirrors photo metadata into a full-text index.
type PhotoIndex interface {
	Index(ctx context.Context, p *entity.Photo) error
	Remove(ctx context.Context, photoID string) error
	// Search returns matching photo ids, best match first.
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// Notifier enqueues user facing emails. Implementations must not block on delivery.
type Notifier interface {
	Welcome(ctx context.Context, u *entity.User) error
	PhotoRemoved(ctx context.Context, owner *entity.User, p *entity.Photo) error
}
