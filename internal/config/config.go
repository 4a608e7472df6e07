// Package config loads taskreminder settings. Sources, lowest precedence
// first: built-in defaults, the TOML config file, a .env file in the
// working directory, then TASKREMINDER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/idilsaglam/taskreminder/internal/store/jsonstore"
)

const (
	appDirName = "taskreminder"
	envPrefix  = "TASKREMINDER_"

	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// DotEnvFile is read, when present, before environment variables are applied.
var DotEnvFile = ".env"

type Config struct {
	Store  StoreConfig  `koanf:"store"`
	Events EventsConfig `koanf:"events"`
	Log    LogConfig    `koanf:"log"`
	UI     UIConfig     `koanf:"ui"`
}

type StoreConfig struct {
	Driver string `koanf:"driver"` // "json" | "postgres"
	Path   string `koanf:"path"`   // json data file
	DSN    string `koanf:"dsn"`    // postgres connection URL
}

type EventsConfig struct {
	NATSURL string `koanf:"nats_url"` // empty = no events
}

type LogConfig struct {
	Verbosity int `koanf:"verbosity"`
}

type UIConfig struct {
	Theme string `koanf:"theme"` // classic | neon | mono
}

// DefaultPath is the config file under the XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, "config.toml")
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"store.driver":    DriverJSON,
		"store.path":      jsonstore.DefaultPath(),
		"store.dsn":       "",
		"events.nats_url": "",
		"log.verbosity":   0,
		"ui.theme":        "classic",
	}
}

// Load builds the configuration. An empty path means DefaultPath, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps TASKREMINDER_EVENTS_NATS_URL to events.nats_url: the first
// underscore separates the section, the rest belong to the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// loadDotEnv does not override variables already set in the environment.
func loadDotEnv() error {
	if DotEnvFile == "" {
		return nil
	}
	if _, err := os.Stat(DotEnvFile); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(DotEnvFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}
	return nil
}

// Validate checks the store settings are usable.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverJSON:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s driver", DriverJSON)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want %s or %s)", c.Store.Driver, DriverJSON, DriverPostgres)
	}
	return nil
}
