package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./pantryman.db"`

	// JWT settings. The secret is held only by this process and injected
	// into the token manager at startup.
	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTIssuer   string        `env:"JWT_ISSUER" envDefault:"pantryman"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"pantryman-app"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// Work factor for bcrypt password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Outbound email (Resend) settings.
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"no-reply@pantryman.app"`

	// APIBaseURL is where verification links point back to; FrontendBaseURL
	// is where the verify endpoint redirects afterwards.
	APIBaseURL      string   `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	FrontendBaseURL string   `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
