package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
)

type userRow struct {
	u   entity.User
	seq int64
}

func (r *userRow) created() time.Time { return r.u.CreatedAt }
func (r *userRow) order() int64       { return r.seq }

type UserRepository struct {
	s *Store
}

var _ repo.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, row := range r.s.users {
		if id != exceptID && strings.EqualFold(row.u.Email, email) {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email, "") {
		return repo.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.s.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	r.s.users[u.ID] = &userRow{u: *u, seq: r.s.next()}
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u := row.u
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.users {
		if strings.EqualFold(row.u.Email, email) {
			u := row.u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return repo.ErrDuplicateEmail
	}
	u.CreatedAt = row.u.CreatedAt
	u.UpdatedAt = r.s.Now()
	row.u = *u
	return nil
}

// Delete removes the user and, like the foreign key, every photo they own.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.users, id)
	for pid, p := range r.s.photos {
		if p.p.OwnerID == id {
			delete(r.s.photos, pid)
		}
	}
	return nil
}

func (r *UserRepository) Count(_ context.Context, f repo.UserFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, row := range r.s.users {
		if f.AdminsOnly && !row.u.IsAdmin {
			continue
		}
		if f.CreatedSince != nil && row.u.CreatedAt.Before(*f.CreatedSince) {
			continue
		}
		n++
	}
	return n, nil
}

func (r *UserRepository) summaries() []entity.UserSummary {
	counts := make(map[string]int64, len(r.s.users))
	for _, p := range r.s.photos {
		counts[p.p.OwnerID]++
	}
	rows := make([]*userRow, 0, len(r.s.users))
	for _, row := range r.s.users {
		rows = append(rows, row)
	}
	newestFirst(rows)

	out := make([]entity.UserSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.UserSummary{User: row.u, PhotoCount: counts[row.u.ID]})
	}
	return out
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]entity.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.summaries(), limit, offset), nil
}

func (r *UserRepository) TopUploaders(_ context.Context, n int) ([]entity.UserSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.summaries()
	sort.SliceStable(all, func(i, j int) bool { return all[i].PhotoCount > all[j].PhotoCount })
	return window(all, n, 0), nil
}
