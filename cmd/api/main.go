package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resort/internal/config"
	"resort/internal/database"
	"resort/internal/domain/admin"
	"resort/internal/domain/booking"
	"resort/internal/domain/catalog"
	"resort/internal/domain/notification"
	"resort/internal/middleware"
	jwtsvc "resort/internal/pkg/jwt"
	"resort/internal/pkg/qr"
	"resort/internal/pkg/response"
)

type app struct {
	router  *gin.Engine
	booking *booking.Service
	closers []func() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := migrate(db); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	rdb := config.NewRedisClient(cfg)
	mailer := newMailer(cfg)

	a := build(cfg, db, rdb, mailer)
	defer func() {
		for _, c := range a.closers {
			_ = c()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	booking.NewSweeper(a.booking).Start(ctx, cfg.SweepInterval)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("resort api listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("server exited")
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&catalog.Room{}, &booking.Booking{}, &admin.AdminUser{})
}

// newMailer prefers the RabbitMQ queue and falls back to logging.
func newMailer(cfg *config.Config) notification.Mailer {
	if cfg.RabbitMQURL == "" {
		return notification.NewConsoleMailer(true)
	}
	m, err := notification.NewQueueMailer(cfg.RabbitMQURL, cfg.MailQueue)
	if err != nil {
		log.Printf("mail queue unavailable, logging emails instead: %v", err)
		return notification.NewConsoleMailer(true)
	}
	log.Printf("mail queue ready queue=%s", cfg.MailQueue)
	return m
}

func build(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer notification.Mailer) *app {
	a := &app{}
	if c, ok := mailer.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}

	dispatcher := notification.NewDispatcher(mailer, cfg.MailFrom, cfg.OperatorEmail)
	hub := notification.NewHub()

	roomRepo := catalog.NewRoomRepository(db)
	catalogService := catalog.NewService(roomRepo)

	bookingService := booking.NewService(
		booking.NewRepository(db),
		roomRepo,
		dispatcher,
		booking.NewRoomLocker(rdb),
		qr.NewEncoder(cfg.QRSecret),
		booking.Options{ReferencePrefix: cfg.ReferencePrefix, Expiration: cfg.BookingExpiration},
	)
	bookingService.SetEventPublisher(hub)
	a.booking = bookingService

	adminService := admin.NewService(admin.NewRepository(db), jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL))
	dashboard := admin.NewDashboardService(catalogService, bookingService)

	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	adminHandler := admin.NewHandler(adminService, dashboard)
	liveHandler := notification.NewHandler(hub, cfg.Origins())

	limiter := middleware.RateLimit(cfg.RateLimit, rdb)
	auth := admin.AdminJWTAuth(adminService)

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.Origins()))

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Amanpulo Reservation API is running"})
	})

	catalogHandler.RegisterRoutes(api)
	bookingHandler.RegisterRoutes(api, limiter)
	adminHandler.RegisterAuthRoutes(api, auth, limiter)

	adminGroup := api.Group("/admin", auth)
	catalogHandler.RegisterAdminRoutes(adminGroup.Group("", middleware.RequireRole(admin.RoleOwner, admin.RoleAdmin)))
	bookingHandler.RegisterAdminRoutes(adminGroup)
	adminHandler.RegisterAdminRoutes(adminGroup)
	liveHandler.RegisterAdminRoutes(adminGroup)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not Found - "+c.Request.URL.Path)
	})

	a.router = r
	return a
}
