package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/internal/domain/repository"
)

type PhotoRepository struct {
	db DB
}

func NewPhotoRepository(db DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

const photoSelect = `
	SELECT p.id, p.owner_id, p.title, p.description, p.image_path, p.created_at, p.updated_at,
	       COALESCE(u.name, '')
	FROM photos p
	LEFT JOIN users u ON u.id = p.owner_id
`

func scanPhoto(row pgx.Row, p *entity.Photo) error {
	return row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.ImagePath,
		&p.CreatedAt, &p.UpdatedAt, &p.OwnerName)
}

func (r *PhotoRepository) Create(ctx context.Context, p *entity.Photo) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO photos (owner_id, title, description, image_path)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.Title, p.Description, p.ImagePath)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*entity.Photo, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	p := &entity.Photo{}
	if err := scanPhoto(r.db.QueryRow(ctx, photoSelect+` WHERE p.id = $1`, id), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PhotoRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Photo, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Photo, 0)
	for rows.Next() {
		var p entity.Photo
		if err := scanPhoto(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PhotoRepository) List(ctx context.Context, limit, offset int) ([]entity.Photo, error) {
	return r.list(ctx, photoSelect+` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *PhotoRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]entity.Photo, error) {
	if limit <= 0 {
		return r.list(ctx, photoSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC`, ownerID)
	}
	return r.list(ctx, photoSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
}

// Update writes title and description only. The image of a photo never changes.
func (r *PhotoRepository) Update(ctx context.Context, p *entity.Photo) error {
	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE photos SET title = $1, description = $2, updated_at = $3
		WHERE id = $4
	`, p.Title, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM photos WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (r *PhotoRepository) Count(ctx context.Context, f repository.PhotoFilter) (int64, error) {
	var owner *string
	if f.OwnerID != "" {
		owner = &f.OwnerID
	}
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM photos
		WHERE ($1::uuid IS NULL OR owner_id = $1)
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
	`, owner, f.CreatedSince).Scan(&n)
	return n, err
}

var _ repository.PhotoRepository = (*PhotoRepository)(nil)
