package notify

import (
	"context"
	"time"

	"github.com/oksasatya/photo-gallery/config"
	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/internal/domain/entity"
	"github.com/oksasatya/photo-gallery/pkg/mailer"
	tpl "github.com/oksasatya/photo-gallery/pkg/mailer/templates"
)

// Publisher is satisfied by *helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier turns gallery events into queued email jobs.
type EmailNotifier struct {
	Pub Publisher
	Cfg *config.Config
	Now func() time.Time
}

var _ application.Notifier = (*EmailNotifier)(nil)

func NewEmailNotifier(pub Publisher, cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{Pub: pub, Cfg: cfg, Now: time.Now}
}

func (n *EmailNotifier) Welcome(ctx context.Context, u *entity.User) error {
	return n.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     tpl.NewWelcomeData(n.Cfg, u.Name, u.Email, tpl.WithTime(n.Now())),
	})
}

func (n *EmailNotifier) PhotoRemoved(ctx context.Context, owner *entity.User, p *entity.Photo) error {
	return n.publish(ctx, mailer.EmailJob{
		To:       owner.Email,
		Template: tpl.PhotoRemoved,
		Data:     tpl.NewPhotoRemovedData(n.Cfg, owner.Name, owner.Email, p.Title, tpl.WithTime(n.Now())),
	})
}

func (n *EmailNotifier) publish(ctx context.Context, job mailer.EmailJob) error {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return n.Pub.PublishJSON(c, job)
}
