// Package config loads service configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"dev"`
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	// BaseURL is the externally reachable origin of this service,
	// e.g. https://verify.example.com. Defaults to localhost:AppPort.
	BaseURL string `env:"BASE_URL"`

	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	BotToken     string `env:"BOT_TOKEN"`
	GuildID      string `env:"GUILD_ID"`

	DatabaseDSN       string        `env:"DATABASE_DSN,required,notEmpty"`
	DBConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`
	DBConnectDelay    time.Duration `env:"DB_CONNECT_DELAY" envDefault:"5s"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
}

func Load() (Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.AppPort
	}

	return cfg, nil
}

// RedirectURL is the OAuth callback this service registers with Discord.
func (c Config) RedirectURL() string {
	return c.BaseURL + "/callback"
}
