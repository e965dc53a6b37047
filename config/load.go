package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSecret = "local_dev_secret"

func Load() (App, error) {
	var errs []error

	cfg := App{
		Port:         getenv("APP_PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Env:          getenv("APP_ENV", "dev"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    getenv("JWT_ISSUER", "bookrent"),
		RedisURL:     os.Getenv("REDIS_URL"),
		CORSOrigins:  csv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
	// PORT wins over APP_PORT on hosted platforms.
	if p := os.Getenv("PORT"); p != "" {
		cfg.Port = p
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("missing env DATABASE_URL"))
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			errs = append(errs, errors.New("missing env JWT_SECRET"))
		}
		cfg.JWTSecret = devSecret
	}

	cfg.AccessTokenTTL = duration("ACCESS_TOKEN_TTL", 30*time.Minute, &errs)
	cfg.RefreshTokenTTL = duration("REFRESH_TOKEN_TTL", 7*24*time.Hour, &errs)
	cfg.LoginRateWindow = duration("LOGIN_RATE_WINDOW", time.Minute, &errs)
	cfg.ShutdownTimeout = duration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs)
	cfg.LoginRateLimit = integer("LOGIN_RATE_LIMIT", 10, &errs)

	if err := errors.Join(errs...); err != nil {
		return App{}, err
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("invalid %s: %q", k, v))
		return def
	}
	return d
}

func integer(k string, def int, errs *[]error) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", k, err))
		return def
	}
	return n
}

func csv(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
