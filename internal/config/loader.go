package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables consulted by Load.
const (
	EnvPrefix  = "DECATHLON_"
	EnvConfig  = EnvPrefix + "CONFIG"
	EnvDotenv  = EnvPrefix + "DOTENV"
	defaultEnv = ".env"
)

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (DECATHLON_DOTENV, default ".env"); a missing file is ignored
//  3. file (YAML) if DECATHLON_CONFIG is set
//  4. env (prefix DECATHLON_)
//
// godotenv never overrides variables that are already set, so real env vars
// still beat the .env file.
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DECATHLON_OUTPUT_FORMAT -> output_format (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotenv() error {
	path := os.Getenv(EnvDotenv)
	explicit := path != ""
	if !explicit {
		path = defaultEnv
	}

	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return nil
	default:
		return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
	}
}
