package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig is the process configuration read from the environment.
type ServerConfig struct {
	HTTPAddr      string           `env:"BUSTRUN_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string           `env:"BUSTRUN_GRPC_ADDR" envDefault:":9090"`
	DBPath        string           `env:"BUSTRUN_DB_PATH" envDefault:"data/bust-run.db"`
	ConfigDir     string           `env:"BUSTRUN_CONFIG_DIR" envDefault:"config"`
	Difficulty    string           `env:"BUSTRUN_DIFFICULTY" envDefault:"default"`
	Seed          uint64           `env:"BUSTRUN_SEED"` // 0 = crypto RNG
	AutosaveEvery time.Duration    `env:"BUSTRUN_AUTOSAVE_EVERY" envDefault:"15s"`
	WatchConfig   bool             `env:"BUSTRUN_WATCH_CONFIG" envDefault:"true"`
	Test          EconomyOverrides `envPrefix:"BUSTRUN_TEST_"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServerConfig parses ServerConfig from the process environment.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
