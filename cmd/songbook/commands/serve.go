package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/JiBB/songbook/internal/daemon"
	"github.com/JiBB/songbook/internal/state"
)

// ServeCmd implements the 'serve' command: watch, rebuild, and serve the
// destination tree until interrupted.
type ServeCmd struct {
	sharedBuildFlags

	Port         int           `short:"p" default:"8080" help:"HTTP port to serve the site on (0 picks a free port)."`
	Watch        bool          `negatable:"" default:"true" help:"Rebuild when the source tree changes."`
	State        string        `help:"SQLite build-history database path (persists the version counter)."`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Also rebuild on a fixed interval, e.g. 1h."`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	s.apply(cfg)
	cfg.Serve.Port = s.Port
	if s.RebuildEvery > 0 {
		cfg.Serve.RebuildEvery = s.RebuildEvery
	}
	if s.State != "" {
		cfg.Serve.StatePath = s.State
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var store *state.Store
	if cfg.Serve.StatePath != "" {
		store, err = state.Open(cfg.Serve.StatePath)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := daemon.New(cfg, store, daemon.Options{Serve: true, Watch: s.Watch})
	if err := d.Run(ctx); err != nil {
		return err
	}
	slog.Info("Shutdown complete")
	return nil
}

// WatchCmd implements the 'watch' command: rebuild on changes without an
// HTTP server.
type WatchCmd struct {
	sharedBuildFlags
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	w.apply(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := daemon.New(cfg, nil, daemon.Options{Watch: true})
	return d.Run(ctx)
}
