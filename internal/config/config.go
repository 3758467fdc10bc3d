package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverYAML   = "yaml"
)

// Config is the application configuration.
type Config struct {
	Port            string       `mapstructure:"port"`
	Log             LogConfig    `mapstructure:"log"`
	Store           StoreConfig  `mapstructure:"store"`
	Location        string       `mapstructure:"location"`
	DefaultStations int          `mapstructure:"default_stations"`
	Stream          StreamConfig `mapstructure:"stream"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StoreConfig selects where the station graph lives. The activity log is
// always kept in the SQLite file at Path.
type StoreConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	YAMLPath string `mapstructure:"yaml_path"`
}

// StreamConfig bounds the websocket status stream.
type StreamConfig struct {
	DefaultInterval time.Duration `mapstructure:"default_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// Load reads configuration from path (or configs/config.yml when empty) and
// from IRRIGATION_* environment variables, which take precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "irrigation.db")
	v.SetDefault("store.yaml_path", "config.yaml")
	v.SetDefault("location", "Local")
	v.SetDefault("default_stations", 6)
	v.SetDefault("stream.default_interval", "1s")
	v.SetDefault("stream.max_interval", "1m")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("IRRIGATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the application cannot start without.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("config: store.path must be set")
		}
	case DriverYAML:
		if c.Store.YAMLPath == "" {
			return errors.New("config: store.yaml_path must be set")
		}
		if c.Store.Path == "" {
			return errors.New("config: store.path must be set for the activity log")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if c.DefaultStations < 0 {
		return fmt.Errorf("config: default_stations must not be negative, got %d", c.DefaultStations)
	}
	if c.Stream.DefaultInterval <= 0 || c.Stream.MaxInterval < c.Stream.DefaultInterval {
		return fmt.Errorf("config: stream intervals invalid (default %s, max %s)",
			c.Stream.DefaultInterval, c.Stream.MaxInterval)
	}
	if _, err := c.TimeLocation(); err != nil {
		return err
	}
	return nil
}

// TimeLocation resolves Location; "Local" and "" mean the host zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" || c.Location == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("config: location %q: %w", c.Location, err)
	}
	return loc, nil
}
