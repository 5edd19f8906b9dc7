package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"resort/internal/config"
	"resort/internal/domain/notification"
)

// mail_worker drains the email queue into logs/mail.log. An SMTP relay can
// tail that file or replace the sink.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	path := os.Getenv("MAIL_LOG_PATH")
	if path == "" {
		path = "logs/mail.log"
	}
	sink := notification.NewFileMailer(path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("mail worker consuming queue=%s sink=%s", cfg.MailQueue, path)
	err = notification.Consume(ctx, cfg.RabbitMQURL, cfg.MailQueue, func(ctx context.Context, msg notification.Message) error {
		if err := sink.Send(ctx, msg); err != nil {
			return err
		}
		log.Printf("mail_delivered id=%s to=%s subject=%q", msg.ID, msg.To, msg.Subject)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("mail worker stopped: %v", err)
	}
	log.Println("mail worker exited")
}
