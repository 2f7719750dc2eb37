package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTAccessTTL    = "24h"
	defaultRefreshTTL      = "168h"
	defaultResetTTL        = "30m"
	defaultRefreshMargin   = "5m"
	defaultCookieSecure    = "false"
	defaultCookiePath      = "/api/v1/auth"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultRefreshPepper   = "change-me-refresh-pepper"
	defaultServiceFeeRate  = "0.10"
	defaultBookAutoConfirm = "false"
	defaultPort            = "8080"
)

type Config struct {
	AppEnv string
	Server ServerConfig
	Auth   AuthConfig
	Booking BookingConfig
}

type ServerConfig struct {
	Port        string
	DatabaseURL string
}

type AuthConfig struct {
	JWTSecret          string
	JWTAccessTTL       time.Duration
	RefreshTTL         time.Duration
	PasswordResetTTL   time.Duration
	RefreshTokenPepper string

	// Access tokens closer to expiry than this are rotated proactively
	// by the auth middleware.
	RefreshMargin time.Duration

	CookieSecure bool
	CookiePath   string
}

type BookingConfig struct {
	// ServiceFeeRate is applied once to the base price at creation or
	// date change; handlers never recompute totals.
	ServiceFeeRate float64

	// AutoConfirm makes new bookings start as "confirmed" instead of
	// "pending".
	AutoConfirm bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Server.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.Server.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", "hotel.db"))

	cfg.Auth.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.Auth.RefreshTokenPepper = strings.TrimSpace(getEnv("REFRESH_TOKEN_PEPPER", defaultRefreshPepper))
	cfg.Auth.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.Auth.CookiePath = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	var err error
	cfg.Auth.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.Auth.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}
	cfg.Auth.PasswordResetTTL, err = parseDurationEnv("PASSWORD_RESET_TTL", defaultResetTTL)
	if err != nil {
		return nil, err
	}
	cfg.Auth.RefreshMargin, err = parseDurationEnv("REFRESH_MARGIN", defaultRefreshMargin)
	if err != nil {
		return nil, err
	}

	cfg.Booking.ServiceFeeRate, err = parseFloatEnv("SERVICE_FEE_RATE", defaultServiceFeeRate)
	if err != nil {
		return nil, err
	}
	cfg.Booking.AutoConfirm = parseBoolEnv("BOOKING_AUTO_CONFIRM", defaultBookAutoConfirm)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Auth.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if cfg.Auth.PasswordResetTTL <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TTL must be > 0")
	}
	if cfg.Auth.CookiePath == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	if cfg.Booking.ServiceFeeRate < 0 {
		return fmt.Errorf("SERVICE_FEE_RATE must be >= 0")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.Auth.RefreshTokenPepper, defaultRefreshPepper) {
			return fmt.Errorf("in prod/release REFRESH_TOKEN_PEPPER must be set and not default")
		}
		if !cfg.Auth.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
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

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
