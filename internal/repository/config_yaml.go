package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"controlling_irrigation/internal/irrigation"

	"gopkg.in/yaml.v3"
)

// ConfigYAML keeps the station graph in a single human-editable YAML file.
type ConfigYAML struct {
	path string
}

func NewConfigYAML(path string) *ConfigYAML {
	return &ConfigYAML{path: path}
}

var _ ConfigStore = (*ConfigYAML)(nil)

// LoadAll reads the file, or returns (nil, nil) if it does not exist yet.
func (r *ConfigYAML) LoadAll(ctx context.Context) (*irrigation.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %q: %w", r.path, err)
	}

	cfg := irrigation.NewConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", r.path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// SaveAll writes the graph to a temporary file and renames it over the old one.
func (r *ConfigYAML) SaveAll(ctx context.Context, cfg *irrigation.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace config %q: %w", r.path, err)
	}
	return nil
}
