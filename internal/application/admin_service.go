package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/internal/domain/policy"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

const (
	AdminUsersPerPage  = 15
	AdminPhotosPerPage = 20
	StatsTopN          = 5
)

// AdminService is the moderation back office. Every method checks CanAdminister first.
type AdminService struct {
	Users  repo.UserRepository
	Photos repo.PhotoRepository
	Blobs  repo.BlobStore
	// Gallery performs photo edits and deletes so admin removals share one code path.
	Gallery *PhotoService
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewAdminService(users repo.UserRepository, photos repo.PhotoRepository, blobs repo.BlobStore, gallery *PhotoService, logger *logrus.Logger) *AdminService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AdminService{Users: users, Photos: photos, Blobs: blobs, Gallery: gallery, Logger: logger, Now: time.Now}
}

// UserInput is the admin form for creating or editing a user. Password is optional on edit.
type UserInput struct {
	Name     string `json:"name" validate:"required,title"`
	Email    string `json:"email" validate:"required,email,title"`
	Password string `json:"password" validate:"omitempty,pwd"`
	IsAdmin  bool   `json:"is_admin"`
}

func (s *AdminService) guard(actor entity.Actor) error {
	if !policy.CanAdminister(actor) {
		return ErrPolicyDenied
	}
	return nil
}

func (s *AdminService) Stats(ctx context.Context, actor entity.Actor) (*entity.Stats, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	now := s.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		st  entity.Stats
		err error
	)
	if st.TotalUsers, err = s.Users.Count(ctx, repo.UserFilter{}); err != nil {
		return nil, err
	}
	if st.TotalAdmins, err = s.Users.Count(ctx, repo.UserFilter{AdminsOnly: true}); err != nil {
		return nil, err
	}
	if st.UsersToday, err = s.Users.Count(ctx, repo.UserFilter{CreatedSince: &today}); err != nil {
		return nil, err
	}
	if st.TotalPhotos, err = s.Photos.Count(ctx, repo.PhotoFilter{}); err != nil {
		return nil, err
	}
	if st.PhotosToday, err = s.Photos.Count(ctx, repo.PhotoFilter{CreatedSince: &today}); err != nil {
		return nil, err
	}
	if st.TopUploaders, err = s.Users.TopUploaders(ctx, StatsTopN); err != nil {
		return nil, err
	}
	if st.RecentPhotos, err = s.Photos.List(ctx, StatsTopN, 0); err != nil {
		return nil, err
	}
	recent, err := s.Users.List(ctx, StatsTopN, 0)
	if err != nil {
		return nil, err
	}
	st.RecentUsers = make([]entity.User, 0, len(recent))
	for _, u := range recent {
		st.RecentUsers = append(st.RecentUsers, u.User)
	}
	return &st, nil
}

func (s *AdminService) ListUsers(ctx context.Context, actor entity.Actor, page int) (entity.Page[entity.UserSummary], error) {
	if err := s.guard(actor); err != nil {
		return entity.Page[entity.UserSummary]{}, err
	}
	page, offset := entity.Offset(page, AdminUsersPerPage)
	total, err := s.Users.Count(ctx, repo.UserFilter{})
	if err != nil {
		return entity.Page[entity.UserSummary]{}, err
	}
	items, err := s.Users.List(ctx, AdminUsersPerPage, offset)
	if err != nil {
		return entity.Page[entity.UserSummary]{}, err
	}
	return entity.NewPage(items, page, AdminUsersPerPage, total), nil
}

func (s *AdminService) GetUser(ctx context.Context, actor entity.Actor, id string) (*entity.User, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *AdminService) CreateUser(ctx context.Context, actor entity.Actor, in UserInput) (*entity.User, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	verr := validate(in)
	if in.Password == "" {
		verr = merge(verr, "password", "is required")
	}
	if verr != nil {
		return nil, verr
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash, IsAdmin: in.IsAdmin}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, mapUserWriteErr(err)
	}
	s.Logger.WithFields(logrus.Fields{"admin_id": actor.UserID, "user_id": u.ID}).Info("user created by admin")
	return u, nil
}

// UpdateUser edits a user. An empty password leaves the stored hash untouched.
func (s *AdminService) UpdateUser(ctx context.Context, actor entity.Actor, id string, in UserInput) (*entity.User, error) {
	u, err := s.GetUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if verr := validate(in); verr != nil {
		return nil, verr
	}
	u.Name = in.Name
	u.Email = in.Email
	u.IsAdmin = in.IsAdmin
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, mapUserWriteErr(err)
	}
	return u, nil
}

// DeleteUser cascades to the user's photos. Administrators cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor entity.Actor, id string) error {
	if err := s.guard(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return ErrSelfDelete
	}
	if _, err := s.GetUser(ctx, actor, id); err != nil {
		return err
	}
	return deleteUserCascade(ctx, s.Users, s.Photos, s.Blobs, s.Logger, id)
}

func (s *AdminService) ListPhotos(ctx context.Context, actor entity.Actor, page int) (entity.Page[entity.Photo], error) {
	if err := s.guard(actor); err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	page, offset := entity.Offset(page, AdminPhotosPerPage)
	total, err := s.Photos.Count(ctx, repo.PhotoFilter{})
	if err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	items, err := s.Photos.List(ctx, AdminPhotosPerPage, offset)
	if err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	return entity.NewPage(items, page, AdminPhotosPerPage, total), nil
}

func (s *AdminService) GetPhoto(ctx context.Context, actor entity.Actor, id string) (*entity.Photo, error) {
	if err := s.guard(actor); err != nil {
		return nil, err
	}
	return s.Gallery.Get(ctx, id)
}

// UpdatePhoto edits any photo's metadata without an ownership check.
func (s *AdminService) UpdatePhoto(ctx context.Context, actor entity.Actor, id string, in PhotoInput) (*entity.Photo, error) {
	p, err := s.GetPhoto(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.Gallery.updateMetadata(ctx, p, in)
}

// DeletePhoto removes any photo, blob first.
func (s *AdminService) DeletePhoto(ctx context.Context, actor entity.Actor, id string) error {
	p, err := s.GetPhoto(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Gallery.remove(ctx, p); err != nil {
		return err
	}
	if p.OwnerID != actor.UserID {
		s.Gallery.notifyRemoval(ctx, p)
	}
	return nil
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func mapUserWriteErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}
