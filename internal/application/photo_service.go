package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/internal/domain/policy"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	"github.com/oksasatya/photo-gallery/pkg/watermark"
)

const (
	GalleryPerPage   = 12
	DashboardPerPage = 12
	SearchLimit      = 24

	DefaultMaxUploadBytes int64 = 2 << 20

	blobDir = "photos"
)

var allowedExt = map[string]bool{"jpg": true, "jpeg": true, "png": true}

// PhotoService runs the gallery use cases. Index and Notify are optional.
type PhotoService struct {
	Photos         repo.PhotoRepository
	Users          repo.UserRepository
	Blobs          repo.BlobStore
	Index          PhotoIndex
	Notify         Notifier
	Logger         *logrus.Logger
	MaxUploadBytes int64
	Now            func() time.Time
}

func NewPhotoService(photos repo.PhotoRepository, users repo.UserRepository, blobs repo.BlobStore, logger *logrus.Logger, maxUploadBytes int64) *PhotoService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PhotoService{
		Photos:         photos,
		Users:          users,
		Blobs:          blobs,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
		Now:            time.Now,
	}
}

// PhotoInput is the editable metadata of a photo.
type PhotoInput struct {
	Title       string `json:"title" validate:"required,title"`
	Description string `json:"description" validate:"caption"`
}

// UploadInput is PhotoInput plus the image file. Size is the declared length, or -1 if unknown.
type UploadInput struct {
	PhotoInput
	Filename string
	Size     int64
	Content  io.Reader
}

// Rendered is an image ready to be streamed to a client.
type Rendered struct {
	Data        []byte
	ContentType string
	Filename    string
	Watermarked bool
}

func (s *PhotoService) Upload(ctx context.Context, actor entity.Actor, in UploadInput) (*entity.Photo, error) {
	if !policy.Allows(actor, policy.ActionCreate, nil) {
		return nil, ErrPolicyDenied
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	verr := validate(in.PhotoInput)
	data, ext, msg := s.readImage(in)
	if msg != "" {
		verr = merge(verr, "image", msg)
	}
	if verr != nil {
		return nil, verr
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	blobPath := path.Join(blobDir, fmt.Sprintf("%d_%s.%s", s.Now().Unix(), token, ext))
	log := s.Logger.WithFields(logrus.Fields{"user_id": actor.UserID, "path": blobPath})

	if err := s.Blobs.Write(ctx, blobPath, data); err != nil {
		metrics.Add(metricUploadFailures, 1)
		log.WithError(err).Error("photo blob write failed")
		return nil, fmt.Errorf("%w: failed to store the image file", ErrUploadFailed)
	}
	ok, err := s.Blobs.Exists(ctx, blobPath)
	if err != nil || !ok {
		metrics.Add(metricUploadFailures, 1)
		log.WithError(err).Error("photo blob missing after write")
		_ = s.Blobs.Delete(ctx, blobPath)
		return nil, fmt.Errorf("%w: the stored image could not be verified", ErrUploadFailed)
	}

	p := &entity.Photo{
		OwnerID:     actor.UserID,
		Title:       in.Title,
		Description: in.Description,
		ImagePath:   blobPath,
	}
	if err := s.Photos.Create(ctx, p); err != nil {
		metrics.Add(metricUploadFailures, 1)
		log.WithError(err).Error("photo metadata insert failed")
		if dErr := s.Blobs.Delete(ctx, blobPath); dErr != nil {
			log.WithError(dErr).Warn("orphan blob cleanup failed")
		}
		return nil, fmt.Errorf("%w: failed to save photo details", ErrUploadFailed)
	}
	p.OwnerName = actor.Name
	metrics.Add(metricUploads, 1)
	s.index(ctx, p)
	return p, nil
}

// readImage enforces the size cap before reading more than MaxUploadBytes+1 bytes.
func (s *PhotoService) readImage(in UploadInput) ([]byte, string, string) {
	if in.Content == nil {
		return nil, "", "is required"
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(in.Filename), "."))
	if !allowedExt[ext] {
		return nil, "", "must be a file of type: jpeg, png, jpg"
	}
	tooLarge := fmt.Sprintf("may not be greater than %d kilobytes", s.MaxUploadBytes/1024)
	if in.Size > s.MaxUploadBytes {
		return nil, "", tooLarge
	}
	data, err := io.ReadAll(io.LimitReader(in.Content, s.MaxUploadBytes+1))
	if err != nil {
		return nil, "", "failed to read the uploaded file"
	}
	if int64(len(data)) > s.MaxUploadBytes {
		return nil, "", tooLarge
	}
	if len(data) == 0 {
		return nil, "", "is required"
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return nil, "", "must be an image"
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, "", "must be an image"
	}
	return data, ext, ""
}

func (s *PhotoService) List(ctx context.Context, page int) (entity.Page[entity.Photo], error) {
	page, offset := entity.Offset(page, GalleryPerPage)
	total, err := s.Photos.Count(ctx, repo.PhotoFilter{})
	if err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	items, err := s.Photos.List(ctx, GalleryPerPage, offset)
	if err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	return entity.NewPage(items, page, GalleryPerPage, total), nil
}

// Dashboard lists the actor's own photos.
func (s *PhotoService) Dashboard(ctx context.Context, actor entity.Actor, page int) (entity.Page[entity.Photo], error) {
	if !actor.IsAuthenticated() {
		return entity.Page[entity.Photo]{}, ErrPolicyDenied
	}
	page, offset := entity.Offset(page, DashboardPerPage)
	total, err := s.Photos.Count(ctx, repo.PhotoFilter{OwnerID: actor.UserID})
	if err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	items, err := s.Photos.ListByOwner(ctx, actor.UserID, DashboardPerPage, offset)
	if err != nil {
		return entity.Page[entity.Photo]{}, err
	}
	return entity.NewPage(items, page, DashboardPerPage, total), nil
}

func (s *PhotoService) Get(ctx context.Context, id string) (*entity.Photo, error) {
	p, err := s.Photos.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// Update edits title and description. Only the owner may do this, administrators included.
func (s *PhotoService) Update(ctx context.Context, actor entity.Actor, id string, in PhotoInput) (*entity.Photo, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(actor, policy.ActionUpdate, p) {
		return nil, ErrPolicyDenied
	}
	return s.updateMetadata(ctx, p, in)
}

func (s *PhotoService) updateMetadata(ctx context.Context, p *entity.Photo, in PhotoInput) (*entity.Photo, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if verr := validate(in); verr != nil {
		return nil, verr
	}
	p.Title = in.Title
	p.Description = in.Description
	if err := s.Photos.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

// Delete removes the blob, then the metadata. Owners and administrators may delete.
func (s *PhotoService) Delete(ctx context.Context, actor entity.Actor, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.Allows(actor, policy.ActionDelete, p) {
		return ErrPolicyDenied
	}
	if err := s.remove(ctx, p); err != nil {
		return err
	}
	if p.OwnerID != actor.UserID {
		s.notifyRemoval(ctx, p)
	}
	return nil
}

// remove deletes one photo. A missing blob or an already deleted row counts as success.
func (s *PhotoService) remove(ctx context.Context, p *entity.Photo) error {
	if err := s.Blobs.Delete(ctx, p.ImagePath); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"photo_id": p.ID, "path": p.ImagePath}).
			Error("photo blob delete failed")
		return fmt.Errorf("delete photo file: %w", err)
	}
	if err := s.Photos.Delete(ctx, p.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	metrics.Add(metricDeletes, 1)
	s.unindex(ctx, p.ID)
	return nil
}

func (s *PhotoService) notifyRemoval(ctx context.Context, p *entity.Photo) {
	if s.Notify == nil {
		return
	}
	owner, err := s.Users.GetByID(ctx, p.OwnerID)
	if err != nil {
		s.Logger.WithError(err).WithField("owner_id", p.OwnerID).Warn("moderation notice skipped")
		return
	}
	if err := s.Notify.PhotoRemoved(ctx, owner, p); err != nil {
		s.Logger.WithError(err).WithField("photo_id", p.ID).Warn("moderation notice enqueue failed")
	}
}

func (s *PhotoService) load(ctx context.Context, id string) (*entity.Photo, []byte, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.Blobs.Read(ctx, p.ImagePath)
	if errors.Is(err, repo.ErrBlobNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read photo file: %w", err)
	}
	return p, data, nil
}

// Download returns the original to signed-in users and a diagonally watermarked JPEG to guests.
func (s *PhotoService) Download(ctx context.Context, actor entity.Actor, id string) (*Rendered, error) {
	p, data, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	base := fileBase(p.Title)

	if actor.IsAuthenticated() {
		metrics.Add(metricDownloadsOriginal, 1)
		return &Rendered{
			Data:        data,
			ContentType: mimetype.Detect(data).String(),
			Filename:    base + "_original" + path.Ext(p.ImagePath),
		}, nil
	}

	out, err := watermark.Render(data, watermark.DiagonalText(p.OwnerName), watermark.Diagonal)
	if err != nil {
		return nil, err
	}
	metrics.Add(metricDownloadsWatermarked, 1)
	return &Rendered{Data: out, ContentType: "image/jpeg", Filename: base + "_watermarked.jpg", Watermarked: true}, nil
}

// Display returns the corner watermarked rendition shown in the gallery, for every actor.
func (s *PhotoService) Display(ctx context.Context, id string) (*Rendered, error) {
	p, data, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := watermark.Render(data, watermark.CornerText(p.OwnerName), watermark.Corner)
	if err != nil {
		return nil, err
	}
	metrics.Add(metricDisplays, 1)
	return &Rendered{Data: out, ContentType: "image/jpeg", Filename: fileBase(p.Title) + ".jpg", Watermarked: true}, nil
}

// Search matches title and description through the index. Without an index it finds nothing.
func (s *PhotoService) Search(ctx context.Context, query string) ([]entity.Photo, error) {
	query = strings.TrimSpace(query)
	if s.Index == nil || query == "" {
		return []entity.Photo{}, nil
	}
	ids, err := s.Index.Search(ctx, query, SearchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Photo, 0, len(ids))
	for _, id := range ids {
		p, err := s.Photos.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue // stale index entry
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *PhotoService) index(ctx context.Context, p *entity.Photo) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("photo_id", p.ID).Warn("photo index failed")
	}
}

func (s *PhotoService) unindex(ctx context.Context, id string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Remove(ctx, id); err != nil {
		s.Logger.WithError(err).WithField("photo_id", id).Warn("photo unindex failed")
	}
}

func fileBase(title string) string {
	r := strings.NewReplacer("/", "_", `\`, "_", `"`, "_", "\n", " ", "\r", " ")
	return r.Replace(title)
}
