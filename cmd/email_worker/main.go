package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/config"
	"github.com/oksasatya/photo-gallery/pkg/helpers"
	"github.com/oksasatya/photo-gallery/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, ch, err := helpers.OpenQueue(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer func() { _ = conn.Close() }()
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, cancelAll := context.WithCancel(context.Background())
	defer cancelAll()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for d := range msgs {
			handle(ctx, logger, mg, d)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-stop
	logger.Info("shutting down")
	cancelAll()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle acks sent mail, drops malformed jobs and requeues transport failures.
func handle(ctx context.Context, logger *logrus.Logger, mg *mailer.Mailgun, d amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.WithError(err).Warn("bad email job")
		_ = d.Nack(false, false)
		return
	}
	msg, err := mailer.Compose(job)
	if err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("compose failed")
		_ = d.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	id, err := mg.Send(c, msg, job.Template)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"template": job.Template, "message_id": d.MessageId}).Error("send failed")
		_ = d.Nack(false, true)
		return
	}
	logger.WithFields(logrus.Fields{"template": job.Template, "message_id": d.MessageId, "mailgun_id": id}).Info("email sent")
	_ = d.Ack(false)
}
