package handlers

import (
	"time"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/pkg/response"
)

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userSummaryDTO struct {
	userDTO
	PhotoCount int64 `json:"photo_count"`
}

type photoDTO struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	DownloadURL string    `json:"download_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type statsDTO struct {
	TotalUsers   int64            `json:"total_users"`
	TotalPhotos  int64            `json:"total_photos"`
	TotalAdmins  int64            `json:"total_admins"`
	PhotosToday  int64            `json:"photos_today"`
	UsersToday   int64            `json:"users_today"`
	TopUploaders []userSummaryDTO `json:"top_uploaders"`
	RecentPhotos []photoDTO       `json:"recent_photos"`
	RecentUsers  []userDTO        `json:"recent_users"`
}

func toUser(u *entity.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func toUserSummaries(in []entity.UserSummary) []userSummaryDTO {
	out := make([]userSummaryDTO, 0, len(in))
	for i := range in {
		out = append(out, userSummaryDTO{userDTO: toUser(&in[i].User), PhotoCount: in[i].PhotoCount})
	}
	return out
}

// toPhoto never exposes the blob path. Clients fetch bytes through the image routes.
func toPhoto(p *entity.Photo) photoDTO {
	base := "/api/photos/" + p.ID
	return photoDTO{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		OwnerName:   p.OwnerName,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    base + "/watermarked",
		DownloadURL: base + "/download",
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPhotos(in []entity.Photo) []photoDTO {
	out := make([]photoDTO, 0, len(in))
	for i := range in {
		out = append(out, toPhoto(&in[i]))
	}
	return out
}

func toUsers(in []entity.User) []userDTO {
	out := make([]userDTO, 0, len(in))
	for i := range in {
		out = append(out, toUser(&in[i]))
	}
	return out
}

func toStats(s *entity.Stats) statsDTO {
	return statsDTO{
		TotalUsers:   s.TotalUsers,
		TotalPhotos:  s.TotalPhotos,
		TotalAdmins:  s.TotalAdmins,
		PhotosToday:  s.PhotosToday,
		UsersToday:   s.UsersToday,
		TopUploaders: toUserSummaries(s.TopUploaders),
		RecentPhotos: toPhotos(s.RecentPhotos),
		RecentUsers:  toUsers(s.RecentUsers),
	}
}

func pageMeta[T any](p entity.Page[T]) response.Pagination {
	return response.Pagination{Page: p.Page, PerPage: p.PerPage, Total: p.Total, LastPage: p.LastPage}
}
