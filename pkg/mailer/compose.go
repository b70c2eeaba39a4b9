package mailer

import (
	"errors"
	"fmt"
	"strings"

	tpl "github.com/oksasatya/photo-gallery/pkg/mailer/templates"
)

var ErrNoRecipient = errors.New("email job has no recipient")

// Message is a rendered email ready for the transport.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Compose resolves the recipient and renders the job's template when one is set.
// Jobs without a template are sent with their literal subject and bodies.
func Compose(job EmailJob) (Message, error) {
	to := strings.TrimSpace(job.To)
	if to == "" && job.Data != nil {
		if v, ok := job.Data["RecipientEmail"].(string); ok {
			to = strings.TrimSpace(v)
		}
	}
	if to == "" {
		return Message{}, ErrNoRecipient
	}
	msg := Message{To: to, Subject: job.Subject, Text: job.Text, HTML: job.HTML}
	if job.Template == "" {
		return msg, nil
	}
	s, t, h, err := tpl.Render(job.Template, job.Data)
	if err != nil {
		return Message{}, fmt.Errorf("render %s: %w", job.Template, err)
	}
	msg.Subject, msg.Text, msg.HTML = s, t, h
	return msg, nil
}
