// Package config loads platform configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the full runtime configuration. All values come from the
// environment; call godotenv.Load in main to pick up a .env file first.
type Config struct {
	Server struct {
		Host            string        `env:"SERVER_HOST,default=0.0.0.0"`
		Port            int           `env:"SERVER_PORT,default=8080"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=15s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=30s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	}

	Database struct {
		URL          string        `env:"DATABASE_URL"`
		MaxOpenConns int           `env:"DATABASE_MAX_OPEN_CONNS,default=20"`
		MaxIdleConns int           `env:"DATABASE_MAX_IDLE_CONNS,default=5"`
		ConnLifetime time.Duration `env:"DATABASE_CONN_LIFETIME,default=30m"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB,default=0"`
	}

	Auth struct {
		JWTSecret string        `env:"JWT_SECRET,default=dev-secret-change-me"`
		TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL,default=24h"`
	}

	Webhook struct {
		BaseURL    string        `env:"WEBHOOK_BASE_URL,default=http://localhost:5678/webhook"`
		APIKey     string        `env:"WEBHOOK_API_KEY"`
		Timeout    time.Duration `env:"WEBHOOK_TIMEOUT,default=10s"`
		MaxRetries int           `env:"WEBHOOK_MAX_RETRIES,default=2"`
	}

	CORS struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`
	}

	RateLimit struct {
		RequestsPerSecond int `env:"RATE_LIMIT_RPS,default=20"`
		Burst             int `env:"RATE_LIMIT_BURST,default=40"`
	}

	Logging struct {
		Level      string `env:"LOG_LEVEL,default=info"`
		Format     string `env:"LOG_FORMAT,default=text"`
		Output     string `env:"LOG_OUTPUT,default=stdout"`
		FilePrefix string `env:"LOG_FILE_PREFIX"`
	}
}

// Load decodes configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
