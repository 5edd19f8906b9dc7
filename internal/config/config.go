package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort              = "5000"
	defaultDatabaseURL       = "resort.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "168h"
	defaultBookingExpiration = "6h"
	defaultReferencePrefix   = "AMAN"
	defaultSweepInterval     = "10m"
	defaultFrontendURL       = "http://localhost:5173"
	defaultMailFrom          = "reservations@amanpulo.local"
	defaultOperatorEmail     = "owner@amanpulo.local"
	defaultMailQueue         = "notifications.email"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration
	// QRSecret signs check-in passes; defaults to JWTSecret.
	QRSecret string

	BookingExpiration time.Duration
	ReferencePrefix   string
	// SweepInterval of 0 leaves expiry to reads only.
	SweepInterval time.Duration

	FrontendURL  string
	ExtraOrigins []string

	MailFrom      string
	OperatorEmail string
	RabbitMQURL   string
	MailQueue     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.QRSecret = strings.TrimSpace(getEnv("QR_SECRET", cfg.JWTSecret))
	cfg.ReferencePrefix = strings.ToUpper(strings.TrimSpace(getEnv("BOOKING_REFERENCE_PREFIX", defaultReferencePrefix)))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.BookingExpiration, err = parseDurationEnv("BOOKING_EXPIRATION", defaultBookingExpiration)
	if err != nil {
		return nil, err
	}
	cfg.SweepInterval, err = parseDurationEnv("BOOKING_SWEEP_INTERVAL", defaultSweepInterval)
	if err != nil {
		return nil, err
	}

	cfg.FrontendURL = strings.TrimSpace(getEnv("FRONTEND_URL", defaultFrontendURL))
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.ExtraOrigins = append(cfg.ExtraOrigins, o)
			}
		}
	}

	cfg.MailFrom = strings.TrimSpace(getEnv("MAIL_FROM", defaultMailFrom))
	cfg.OperatorEmail = strings.TrimSpace(getEnv("OPERATOR_EMAIL", defaultOperatorEmail))
	cfg.RabbitMQURL = strings.TrimSpace(os.Getenv("RABBITMQ_URL"))
	cfg.MailQueue = strings.TrimSpace(getEnv("MAIL_QUEUE", defaultMailQueue))

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = parseIntEnv("REDIS_DB", 0)

	cfg.RateLimit = LoadRateLimitConfig()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s booking_expiration=%s sweep_interval=%s prefix=%s",
		cfg.AppEnv, cfg.Port, cfg.BookingExpiration, cfg.SweepInterval, cfg.ReferencePrefix)

	return cfg, nil
}

// Origins lists the browser origins allowed for CORS and websocket upgrades.
func (c *Config) Origins() []string {
	out := make([]string, 0, len(c.ExtraOrigins)+1)
	if c.FrontendURL != "" {
		out = append(out, c.FrontendURL)
	}
	return append(out, c.ExtraOrigins...)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.BookingExpiration <= 0 {
		return fmt.Errorf("BOOKING_EXPIRATION must be > 0")
	}
	if cfg.SweepInterval < 0 {
		return fmt.Errorf("BOOKING_SWEEP_INTERVAL must be >= 0")
	}
	if cfg.ReferencePrefix == "" || strings.Contains(cfg.ReferencePrefix, "-") {
		return fmt.Errorf("BOOKING_REFERENCE_PREFIX must be non-empty and contain no '-'")
	}
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func parseIntEnv(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
