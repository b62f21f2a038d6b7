package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// PathEnv names the environment variable holding an optional YAML config file
const PathEnv = "LEARNING_CONFIG"

// Load reads configuration from a .env file, a YAML file and the environment.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file is taken from LEARNING_CONFIG (fallback "./learning.yaml");
// when that file is absent and LEARNING_CONFIG was not set, configuration
// comes from ENV and defaults only.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv(PathEnv)
	explicitPath := path != ""
	if !explicitPath {
		path = "./learning.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
