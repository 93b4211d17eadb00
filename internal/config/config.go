package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the service reads from the environment.
// Username, password and venue id are required and have no defaults.
type Config struct {
	Username string `env:"BESSA_USERNAME,required,notEmpty"`
	Password string `env:"BESSA_PASSWORD,required,notEmpty"`
	VenueID  int    `env:"BESSA_VENUE_ID,required,notEmpty"`

	BaseURL         string        `env:"BESSA_BASE_URL" envDefault:"https://api.bessa.app"`
	Port            string        `env:"PORT" envDefault:"8080"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
