package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"resort/internal/config"
	"resort/internal/database"
	"resort/internal/domain/booking"
	"resort/internal/domain/catalog"
)

// booking_cleanup expires every overdue reservation in one pass. It is meant
// for cron when the in-process sweeper is disabled.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := booking.NewService(
		booking.NewRepository(db),
		catalog.NewRoomRepository(db),
		nil,
		nil,
		nil,
		booking.Options{ReferencePrefix: cfg.ReferencePrefix, Expiration: cfg.BookingExpiration},
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := booking.NewSweeper(svc).RunOnce(ctx)
	if err != nil {
		log.Fatalf("booking cleanup failed: %v", err)
	}
	log.Printf("booking cleanup completed: expired=%d", n)
}
