// internal/config/config.go
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/unclebandit/callgenie-backend/internal/config/configs"
)

// Config aggregates every configuration section of the service. Fields are
// populated from environment variables by caarlos0/env; nested sections with
// an envPrefix read their variables under that prefix.
type Config struct {
	// Env names the deployment environment (dev, prod). Only logged.
	Env string `env:"ENV" envDefault:"dev"`

	// HTTP reads PORT and CLIENT_URL without a prefix so existing .env files
	// keep working.
	HTTP configs.HTTP

	Log        configs.Logger     `envPrefix:"LOG_"`
	Store      configs.Store      `envPrefix:"STORE_"`
	Psql       configs.Postgres   `envPrefix:"PSQL_"`
	Queue      configs.Queue      `envPrefix:"QUEUE_"`
	ElevenLabs configs.ElevenLabs `envPrefix:"ELEVENLABS_"`
	Dialer     configs.Dialer     `envPrefix:"DIALER_"`
}

// Load reads configuration from environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Dialer.Interval <= 0 {
		return cfg, fmt.Errorf("DIALER_INTERVAL must be positive, got %s", cfg.Dialer.Interval)
	}
	if cfg.Dialer.MaxLeads <= 0 {
		return cfg, fmt.Errorf("DIALER_MAX_LEADS must be positive, got %d", cfg.Dialer.MaxLeads)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// It reports whether a file was loaded; a missing file is not an error.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}
