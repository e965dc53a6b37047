package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	Env         string `env:"APP_ENV" default:"dev"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`

	JWTSecret       string        `env:"JWT_SECRET,required"`
	JWTIssuer       string        `env:"JWT_ISSUER" default:"bookrent"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" default:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" default:"168h"`

	RedisURL        string        `env:"REDIS_URL"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" default:"1m"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" default:"*"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a App) IsDev() bool { return a.Env == "dev" || a.Env == "test" }
