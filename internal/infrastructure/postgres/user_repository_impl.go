package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/internal/domain/repository"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name, is_admin, created_at, updated_at`

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.IsAdmin)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.get(ctx, `id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.get(ctx, `LOWER(email) = LOWER($1)`, email)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, name = $3, is_admin = $4, updated_at = $5
		WHERE id = $6
	`, u.Email, u.Password, u.Name, u.IsAdmin, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for the photo rows.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context, f repository.UserFilter) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users
		WHERE ($1 = FALSE OR is_admin = TRUE)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
	`, f.AdminsOnly, f.CreatedSince).Scan(&n)
	return n, err
}

const summarySelect = `
	SELECT u.id, u.email, u.password_hash, u.name, u.is_admin, u.created_at, u.updated_at,
	       COUNT(p.id) AS photo_count
	FROM users u
	LEFT JOIN photos p ON p.owner_id = u.id
	GROUP BY u.id
`

func (r *UserRepository) summaries(ctx context.Context, sql string, args ...any) ([]entity.UserSummary, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.UserSummary, 0)
	for rows.Next() {
		var s entity.UserSummary
		if err := rows.Scan(&s.ID, &s.Email, &s.Password, &s.Name, &s.IsAdmin,
			&s.CreatedAt, &s.UpdatedAt, &s.PhotoCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]entity.UserSummary, error) {
	return r.summaries(ctx, summarySelect+` ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *UserRepository) TopUploaders(ctx context.Context, n int) ([]entity.UserSummary, error) {
	return r.summaries(ctx, summarySelect+` ORDER BY photo_count DESC, u.created_at DESC LIMIT $1`, n)
}

var _ repository.UserRepository = (*UserRepository)(nil)
