// Package config reads the server settings from the environment, after
// loading a .env file when one exists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/super8/internal/score"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr   string `env:"TOURNEY_ADDR" envDefault:":8080"`
	DBPath string `env:"TOURNEY_DB_PATH" envDefault:"super8.db"`

	// Master switch, the editable session flag only counts when this is on
	AllowEditing bool `env:"TOURNEY_ALLOW_EDITING" envDefault:"true"`
	// Accept the 1-1 placeholder result found in older exports
	AllowPlaceholderScore bool `env:"TOURNEY_ALLOW_PLACEHOLDER_SCORE" envDefault:"true"`

	CORSOrigins     []string      `env:"TOURNEY_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	SessionLifetime time.Duration `env:"TOURNEY_SESSION_LIFETIME" envDefault:"24h"`
	LogLevel        slog.Level    `env:"TOURNEY_LOG_LEVEL" envDefault:"INFO"`
}

func (c Config) ScoreRules() score.Rules {
	return score.Rules{AllowPlaceholder: c.AllowPlaceholderScore}
}

// Load reads files (default .env) into the environment and parses it.
// Missing files are not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
		slog.Debug("no .env file found, using environment variables")
	}
	return Parse()
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
