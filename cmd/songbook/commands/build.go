package commands

import (
	"context"
	"log/slog"

	"github.com/JiBB/songbook/internal/build"
)

// BuildCmd implements the 'build' command: one full pipeline pass.
type BuildCmd struct {
	sharedBuildFlags
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	b.apply(cfg)

	builder := &build.Builder{Config: cfg}
	res, err := builder.Run(context.Background())
	if err != nil {
		return err
	}

	slog.Info("Songbook generated",
		"destination", cfg.Destination,
		"songs", res.Songs,
		"categories", res.Categories,
		"pages", res.Pages,
		"skipped", res.Skipped)
	return nil
}
