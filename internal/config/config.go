// Package config holds the process configuration, read from the environment
// (optionally seeded from a .env file), and the YAML analysis files.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string `env:"DOMCOMB_DB"         envDefault:"./data/domcomb.db"`
	OutputDir string `env:"DOMCOMB_OUTPUT_DIR" envDefault:"./out"`
	LogLevel  string `env:"DOMCOMB_LOG_LEVEL"  envDefault:"info"`
	Workers   int    `env:"DOMCOMB_WORKERS"    envDefault:"1"`
	Addr      string `env:"DOMCOMB_ADDR"       envDefault:"0.0.0.0:8080"`
}

// LoadDotEnv reads the given .env files (".env" when none) into the
// environment without overriding variables already set. It reports whether
// a file was found; any error other than a missing file is returned.
func LoadDotEnv(files ...string) (bool, error) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load .env: %w", err)
	}
	return true, nil
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}
