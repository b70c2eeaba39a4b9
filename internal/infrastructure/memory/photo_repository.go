package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

type photoRow struct {
	p   entity.Photo
	seq int64
}

func (r *photoRow) created() time.Time { return r.p.CreatedAt }
func (r *photoRow) order() int64       { return r.seq }

type PhotoRepository struct {
	s *Store
}

var _ repo.PhotoRepository = (*PhotoRepository)(nil)

// withOwner copies the row and fills OwnerName. Callers hold the lock.
func (r *PhotoRepository) withOwner(row *photoRow) entity.Photo {
	p := row.p
	if u, ok := r.s.users[p.OwnerID]; ok {
		p.OwnerName = u.u.Name
	}
	return p
}

func (r *PhotoRepository) Create(_ context.Context, p *entity.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.OwnerID]; !ok {
		return fmt.Errorf("photo owner %q: %w", p.OwnerID, repo.ErrNotFound)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.s.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	row := &photoRow{p: *p, seq: r.s.next()}
	row.p.OwnerName = ""
	r.s.photos[p.ID] = row
	return nil
}

func (r *PhotoRepository) GetByID(_ context.Context, id string) (*entity.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.photos[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	p := r.withOwner(row)
	return &p, nil
}

func (r *PhotoRepository) list(ownerID string, limit, offset int) []entity.Photo {
	rows := make([]*photoRow, 0, len(r.s.photos))
	for _, row := range r.s.photos {
		if ownerID != "" && row.p.OwnerID != ownerID {
			continue
		}
		rows = append(rows, row)
	}
	newestFirst(rows)
	rows = window(rows, limit, offset)

	out := make([]entity.Photo, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.withOwner(row))
	}
	return out
}

func (r *PhotoRepository) List(_ context.Context, limit, offset int) ([]entity.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list("", limit, offset), nil
}

func (r *PhotoRepository) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]entity.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if ownerID == "" {
		return []entity.Photo{}, nil
	}
	return r.list(ownerID, limit, offset), nil
}

// Update writes title and description. ImagePath and OwnerID are immutable.
func (r *PhotoRepository) Update(_ context.Context, p *entity.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.photos[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	row.p.Title = p.Title
	row.p.Description = p.Description
	row.p.UpdatedAt = r.s.Now()
	p.UpdatedAt = row.p.UpdatedAt
	return nil
}

func (r *PhotoRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.photos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.photos, id)
	return nil
}

func (r *PhotoRepository) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, row := range r.s.photos {
		if row.p.OwnerID == ownerID {
			delete(r.s.photos, id)
			n++
		}
	}
	return n, nil
}

func (r *PhotoRepository) Count(_ context.Context, f repo.PhotoFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, row := range r.s.photos {
		if f.OwnerID != "" && row.p.OwnerID != f.OwnerID {
			continue
		}
		if f.CreatedSince != nil && row.p.CreatedAt.Before(*f.CreatedSince) {
			continue
		}
		n++
	}
	return n, nil
}
