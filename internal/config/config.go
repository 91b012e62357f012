// Package config loads and validates songbook configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration. Every field has a working default;
// a config file is optional and CLI flags override it.
type Config struct {
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Keep        []string `yaml:"keep,omitempty"`

	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
	Serve ServeConfig `yaml:"serve"`
}

// SiteConfig holds values threaded into every rendered page.
type SiteConfig struct {
	Title    string `yaml:"title"`
	BasePath string `yaml:"base_path,omitempty"` // link prefix for sub-path hosting
}

// BuildConfig controls corpus parsing.
type BuildConfig struct {
	// Strict makes a song file without a Title: tag an error instead of
	// falling back on the filename.
	Strict *bool `yaml:"strict,omitempty"`
}

// ServeConfig controls the watch/serve loop.
type ServeConfig struct {
	Port int `yaml:"port"` // 0 picks an arbitrary free port
	// QuietWindow is how long after the last filesystem event a rebuild
	// waits, so editor save bursts collapse into one build.
	QuietWindow time.Duration `yaml:"quiet_window,omitempty"`
	// RebuildEvery triggers periodic rebuilds independent of filesystem
	// events. Zero disables them.
	RebuildEvery time.Duration `yaml:"rebuild_every,omitempty"`
	// StatePath is the sqlite build-history database. Empty keeps history
	// in memory only.
	StatePath string `yaml:"state_path,omitempty"`
}

// IsStrict reports the effective strict setting (default true).
func (b BuildConfig) IsStrict() bool {
	return b.Strict == nil || *b.Strict
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{Source: "."}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a YAML config file, expanding ${ENV} references in its contents.
// A .env file in the working directory is honored first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("No .env file loaded", "error", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadIfPresent loads path when it exists and falls back on defaults when it
// does not.
func LoadIfPresent(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// ApplyDefaults fills every unset field with its working default. Called
// again after CLI overrides so derived paths stay consistent.
func (c *Config) ApplyDefaults() {
	if c.Source == "" {
		c.Source = "."
	}
	if c.Destination == "" {
		c.Destination = filepath.Join(c.Source, "site")
	}
	if c.Site.Title == "" {
		c.Site.Title = "Songbook"
	}
	if c.Serve.QuietWindow <= 0 {
		c.Serve.QuietWindow = 200 * time.Millisecond
	}
}

// Validate rejects configurations the build cannot run with.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port %d out of range", c.Serve.Port)
	}
	if c.Serve.RebuildEvery < 0 {
		return fmt.Errorf("serve.rebuild_every must not be negative")
	}
	return nil
}

// SongsDir returns the directory song files are read from.
func (c *Config) SongsDir() string { return filepath.Join(c.Source, "songs") }

// TemplatesDir returns the page template directory.
func (c *Config) TemplatesDir() string { return filepath.Join(c.Source, "templates") }

// StaticDir returns the static asset directory.
func (c *Config) StaticDir() string { return filepath.Join(c.Source, "static") }
