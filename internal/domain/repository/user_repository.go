package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a write would break email uniqueness.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserFilter narrows Count. Zero value counts every user.
type UserFilter struct {
	AdminsOnly   bool
	CreatedSince *time.Time
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f UserFilter) (int64, error)
	// List returns users newest first, each annotated with its photo count.
	List(ctx context.Context, limit, offset int) ([]entity.UserSummary, error)
	// TopUploaders returns the n users owning the most photos.
	TopUploaders(ctx context.Context, n int) ([]entity.UserSummary, error)
}
