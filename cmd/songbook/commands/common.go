// Package commands defines the songbook CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/JiBB/songbook/internal/config"
)

// Global carries state shared between subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path." default:"songbook.yaml"`
	Source  string           `short:"s" help:"Directory containing songs, templates, and static assets (overrides config)."`
	Verbose int              `short:"v" type:"counter" help:"Increase logging verbosity (repeatable)."`
	Quiet   bool             `short:"q" help:"Only log errors."`
	Version kong.VersionFlag `name:"version" help:"Show version and exit."`

	Build BuildCmd `cmd:"" help:"Build the songbook website once."`
	Serve ServeCmd `cmd:"" help:"Build, then watch for changes and serve the site over HTTP."`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild on changes without serving."`
	Init  InitCmd  `cmd:"" help:"Scaffold a new songbook source directory."`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	switch {
	case c.Quiet:
		level = slog.LevelError
	case c.Verbose >= 1:
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig resolves the effective configuration: file values (when the file
// exists) overridden by global flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadIfPresent(c.Config)
	if err != nil {
		return nil, err
	}
	if c.Source != "" {
		cfg.Source = c.Source
		cfg.Destination = ""
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

// sharedBuildFlags are the build-shape flags common to build, serve, and
// watch.
type sharedBuildFlags struct {
	Destination string   `short:"d" help:"Directory in which to generate the website (default: <source>/site)."`
	Keep        []string `help:"Destination-relative paths (doublestar globs) never cleared by a build, e.g. --keep .git."`
	BasePath    string   `name:"base-path" help:"Link prefix when hosting the site under a sub-path."`
	Title       string   `help:"Site title."`
	Strict      *bool    `negatable:"" help:"Fail songs with no Title tag instead of falling back on the filename (default true)."`
}

func (f *sharedBuildFlags) apply(cfg *config.Config) {
	if f.Destination != "" {
		cfg.Destination = f.Destination
	}
	if len(f.Keep) > 0 {
		cfg.Keep = append(cfg.Keep, f.Keep...)
	}
	if f.BasePath != "" {
		cfg.Site.BasePath = f.BasePath
	}
	if f.Title != "" {
		cfg.Site.Title = f.Title
	}
	if f.Strict != nil {
		cfg.Build.Strict = f.Strict
	}
}
