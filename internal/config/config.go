// Package config loads studykit settings from, in order of precedence:
// built-in defaults, a YAML config file, STUDYKIT_* environment variables,
// and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/studykit/studykit/internal/timer"
)

const envPrefix = "STUDYKIT_"

// Config holds every runtime setting.
type Config struct {
	// DB is the SQLite database path.
	DB string `koanf:"db" validate:"required"`
	// Repos is where git deck sources are checked out.
	Repos string `koanf:"repos" validate:"required"`
	// Listen is the review API address.
	Listen string `koanf:"listen" validate:"required,hostname_port"`
	// Focus and Break are the pomodoro phase budgets, in seconds.
	Focus int `koanf:"focus" validate:"gt=0,lte=14400"`
	Break int `koanf:"break" validate:"gt=0,lte=3600"`
	// Budget is the default revision-mode budget, in seconds. The timer
	// clamps it into its allowed range at session start.
	Budget int `koanf:"budget" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DB:     "studykit.db",
		Repos:  "repos",
		Listen: "127.0.0.1:7040",
		Focus:  timer.DefaultFocusSeconds,
		Break:  timer.DefaultBreakSeconds,
		Budget: 10 * 60,
	}
}

// Load layers the config file (if it exists), environment, and flags over
// the defaults, then validates the result. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
