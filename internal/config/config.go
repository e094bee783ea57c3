// Package config loads viewer defaults from TOML files. Command-line flags override
// anything set here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/cantoview/canto/internal/collector"
	"github.com/cantoview/canto/internal/gallery"
	"github.com/cantoview/canto/internal/validate"
)

const (
	appName         = "canto"
	configFileName  = "config.toml"
	localConfigName = "canto.toml"
)

// ErrInvalidConfig wraps validation failures of a loaded config.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Layout   string       `koanf:"layout" validate:"oneof=grid slide"`
	PageSize int          `koanf:"page_size" validate:"min=1,max=256"`
	Walk     WalkConfig   `koanf:"walk"`
	Loader   LoaderConfig `koanf:"loader"`
}

// WalkConfig holds the path collector settings.
type WalkConfig struct {
	MaxDepth      int      `koanf:"max_depth" validate:"min=0,max=64"`
	SkipHidden    bool     `koanf:"skip_hidden"`
	RespectIgnore bool     `koanf:"respect_ignore"`
	Exclude       []string `koanf:"exclude" validate:"dive,glob"`
	Dedupe        bool     `koanf:"dedupe"`
	Workers       int      `koanf:"workers" validate:"min=0,max=64"` // 0 = walker default
}

// LoaderConfig holds the image loader settings.
type LoaderConfig struct {
	Workers     int `koanf:"workers" validate:"min=1,max=64"`
	ThumbWidth  int `koanf:"thumb_width" validate:"min=4,max=512"`
	ThumbHeight int `koanf:"thumb_height" validate:"min=4,max=512"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Layout:   "grid",
		PageSize: gallery.DefaultPageSize,
		Walk: WalkConfig{
			MaxDepth: collector.DefaultMaxDepth,
		},
		Loader: LoaderConfig{
			Workers:     2,
			ThumbWidth:  32,
			ThumbHeight: 32,
		},
	}
}

// DefaultPaths returns the config files consulted when none is given explicitly,
// lowest priority first.
func DefaultPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, appName, configFileName),
		localConfigName,
	}
}

// Load reads the default config files, then explicit when non-empty. An explicit
// path must exist; default paths are skipped when missing.
func Load(explicit string) (*Config, error) {
	paths := DefaultPaths()
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		paths = append(paths, explicit)
	}
	return LoadFiles(paths...)
}

// LoadFiles merges the given TOML files over the defaults, later files winning, and
// validates the result. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		logrus.Debug("Loading config file from: ", path)
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// GalleryLayout returns the navigator layout the config describes.
func (c *Config) GalleryLayout() (gallery.Layout, error) {
	return gallery.ParseLayout(c.Layout, c.PageSize)
}

// CollectorOptions returns the walk options, resolving relative arguments against wd.
func (c *Config) CollectorOptions(wd string) collector.Options {
	return collector.Options{
		WorkDir:       wd,
		MaxDepth:      c.Walk.MaxDepth,
		SkipHidden:    c.Walk.SkipHidden,
		RespectIgnore: c.Walk.RespectIgnore,
		Exclude:       c.Walk.Exclude,
		Dedupe:        c.Walk.Dedupe,
		Workers:       c.Walk.Workers,
	}
}
