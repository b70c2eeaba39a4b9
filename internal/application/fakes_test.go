package application

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	repo "github.com/oksasatya/photo-gallery/internal/domain/repository"
	"github.com/oksasatya/photo-gallery/internal/infrastructure/memory"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
)

type fakeBlobs struct {
	mu        sync.Mutex
	data      map[string][]byte
	failWrite error
	dropWrite bool // Write reports success but stores nothing
	failDel   error
	writes    int
}

func newFakeBlobs() *fakeBlobs { return &fakeBlobs{data: map[string][]byte{}} }

func (f *fakeBlobs) Write(_ context.Context, p string, b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.failWrite != nil {
		return f.failWrite
	}
	if !f.dropWrite {
		f.data[p] = append([]byte(nil), b...)
	}
	return nil
}

func (f *fakeBlobs) Read(_ context.Context, p string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.data[p]
	if !ok {
		return nil, repo.ErrBlobNotFound
	}
	return append([]byte(nil), b...), nil
}

func (f *fakeBlobs) Exists(_ context.Context, p string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[p]
	return ok, nil
}

func (f *fakeBlobs) Delete(_ context.Context, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDel != nil {
		return f.failDel
	}
	delete(f.data, p)
	return nil
}

func (f *fakeBlobs) has(p string) bool {
	ok, _ := f.Exists(context.Background(), p)
	return ok
}

func (f *fakeBlobs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

type fakeIndex struct {
	docs    map[string]string
	failAll bool
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[string]string{}} }

func (f *fakeIndex) Index(_ context.Context, p *entity.Photo) error {
	if f.failAll {
		return errors.New("es down")
	}
	f.docs[p.ID] = p.Title + " " + p.Description
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	if f.failAll {
		return errors.New("es down")
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q string, _ int) ([]string, error) {
	var ids []string
	for id, text := range f.docs {
		if bytes.Contains(bytes.ToLower([]byte(text)), bytes.ToLower([]byte(q))) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeNotifier struct {
	welcomed []string
	removed  []string
}

func (f *fakeNotifier) Welcome(_ context.Context, u *entity.User) error {
	f.welcomed = append(f.welcomed, u.Email)
	return nil
}

func (f *fakeNotifier) PhotoRemoved(_ context.Context, owner *entity.User, p *entity.Photo) error {
	f.removed = append(f.removed, owner.Email+":"+p.Title)
	return nil
}

type env struct {
	store   *memory.Store
	users   *memory.UserRepository
	photos  *memory.PhotoRepository
	blobs   *fakeBlobs
	index   *fakeIndex
	notify  *fakeNotifier
	gallery *PhotoService
	admin   *AdminService
	account *Service
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	e := &env{
		store:  store,
		users:  store.Users(),
		photos: store.Photos(),
		blobs:  newFakeBlobs(),
		index:  newFakeIndex(),
		notify: &fakeNotifier{},
	}
	log := quietLogger()
	e.gallery = NewPhotoService(e.photos, e.users, e.blobs, log, 0)
	e.gallery.Index = e.index
	e.gallery.Notify = e.notify
	e.admin = NewAdminService(e.users, e.photos, e.blobs, e.gallery, log)
	e.account = NewService(e.users, e.photos, e.blobs, helpers.NewJWTManager("a", "r", time.Hour, 2*time.Hour), nil, log)
	e.account.Notify = e.notify
	return e
}

// seedUser stores a user whose password is "password".
func (e *env) seedUser(t *testing.T, name, email string, admin bool) entity.Actor {
	t.Helper()
	hash, err := helpers.HashPassword("password")
	require.NoError(t, err)
	u := &entity.User{Name: name, Email: email, Password: hash, IsAdmin: admin}
	require.NoError(t, e.users.Create(context.Background(), u))
	return entity.ActorFor(u)
}

func (e *env) upload(t *testing.T, actor entity.Actor, title string) *entity.Photo {
	t.Helper()
	p, err := e.gallery.Upload(context.Background(), actor, pngUpload(t, title))
	require.NoError(t, err)
	return p
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngUpload(t *testing.T, title string) UploadInput {
	data := testPNG(t, 64, 48)
	return UploadInput{
		PhotoInput: PhotoInput{Title: title, Description: "desc"},
		Filename:   "pic.png",
		Size:       int64(len(data)),
		Content:    bytes.NewReader(data),
	}
}
