// Package config resolves the paths rosterface works on.
// Defaults reproduce the roster layout; environment variables override them
// and command-line flags override both.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Defaults for the shipped roster.
var (
	DefaultImageDir = filepath.Join("assets", "images", "games", "ssbu", "professor_fandango")
	DefaultMapPath  = filepath.Join("assets", "images", "games", "ssbu", "character_image_map.js")
)

// Config holds settings shared by every command.
type Config struct {
	ImageDir     string `env:"ROSTERFACE_IMAGE_DIR"`
	MapPath      string `env:"ROSTERFACE_MAP_PATH"`
	SidecarPath  string `env:"ROSTERFACE_SIDECAR_PATH"`
	RegistryPath string `env:"ROSTERFACE_REGISTRY_PATH"`
	LogFile      string `env:"ROSTERFACE_LOG_FILE"`
	LogLevel     string `env:"ROSTERFACE_LOG_LEVEL" envDefault:"info"`

	Postgres Postgres
}

// Postgres holds the connection settings of the optional map mirror.
type Postgres struct {
	Host     string `env:"POSTGRES_HOST"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
}

// URL builds the connection string, falling back to a local default
// when no host is configured.
func (p Postgres) URL() string {
	if p.Host == "" {
		return "postgres://localhost:5432/rosterface"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.DB)
}

// Load reads the environment and fills in defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ImageDir == "" {
		cfg.ImageDir = DefaultImageDir
	}
	if cfg.MapPath == "" {
		cfg.MapPath = DefaultMapPath
	}
	return cfg, nil
}
