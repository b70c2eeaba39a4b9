package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/photo-gallery/config"
	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/pkg/mailer"
)

type recordingPub struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *recordingPub) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func newNotifier(pub Publisher) *EmailNotifier {
	n := NewEmailNotifier(pub, &config.Config{AppName: "Gallery", GalleryURL: "https://g.test"})
	n.Now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC) }
	return n
}

func TestWelcomeQueuesJob(t *testing.T) {
	pub := &recordingPub{}
	n := newNotifier(pub)

	err := n.Welcome(context.Background(), &entity.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)
	job := pub.jobs[0]
	require.Equal(t, "alice@example.com", job.To)
	require.Equal(t, "welcome", job.Template)
	require.Equal(t, "Alice", job.Data["Name"])
	require.Equal(t, "https://g.test", job.Data["GalleryURL"])
}

func TestPhotoRemovedCarriesTitle(t *testing.T) {
	pub := &recordingPub{}
	n := newNotifier(pub)

	owner := &entity.User{Name: "Bob", Email: "bob@example.com"}
	err := n.PhotoRemoved(context.Background(), owner, &entity.Photo{Title: "Sunset"})
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)
	require.Equal(t, "photo_removed", pub.jobs[0].Template)
	require.Equal(t, "Sunset", pub.jobs[0].Data["PhotoTitle"])
	require.Equal(t, "02 January 2025, 03:04", pub.jobs[0].Data["Time"])
}

func TestPublishErrorPropagates(t *testing.T) {
	n := newNotifier(&recordingPub{err: errors.New("channel closed")})
	err := n.Welcome(context.Background(), &entity.User{Email: "x@example.com"})
	require.EqualError(t, err, "channel closed")
}
