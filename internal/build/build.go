// Package build runs one full pipeline pass: load songs, resolve the corpus,
// render pages, synchronize the destination tree.
package build

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JiBB/songbook/internal/config"
	"github.com/JiBB/songbook/internal/render"
	"github.com/JiBB/songbook/internal/site"
	"github.com/JiBB/songbook/internal/song"
	"github.com/JiBB/songbook/internal/songbook"
	"github.com/JiBB/songbook/internal/state"
)

// Builder executes builds for one configuration. Safe for repeated use; the
// daemon serializes calls so a build never overlaps another.
type Builder struct {
	Config *config.Config

	// Store, when set, persists build history and supplies the version
	// counter. Without it the counter is process-local.
	Store *state.Store

	localVersion atomic.Int64
}

// Result reports what one build produced.
type Result struct {
	Meta       songbook.Meta
	Songs      int
	Categories int
	Pages      int
	Skipped    int      // song files that failed to parse
	Conflicts  []string // static files overwritten by rendered pages
	Duration   time.Duration
}

// Run performs one build. The pipeline is strictly sequential: parse →
// resolve → render → synchronize. Per-song failures are skipped with a
// warning; structural failures (duplicate slugs, missing required templates,
// unwritable destination) abort with an error, leaving whatever the previous
// build wrote still in place.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	meta := songbook.Meta{
		BuildID:   uuid.NewString(),
		Commit:    sourceCommit(b.Config.Source),
		Generated: started.UTC(),
	}

	version, err := b.nextVersion(ctx)
	if err != nil {
		return nil, err
	}
	meta.Version = version

	res, err := b.run(meta)
	b.record(ctx, meta, res, started, err)
	if err != nil {
		return nil, err
	}

	res.Duration = time.Since(started)
	slog.Info("Build finished",
		"version", meta.Version,
		"songs", res.Songs,
		"pages", res.Pages,
		"duration", res.Duration)
	return res, nil
}

func (b *Builder) run(meta songbook.Meta) (*Result, error) {
	cfg := b.Config

	parser := &song.Parser{Strict: cfg.Build.IsStrict()}
	songs, report, err := songbook.LoadDirectory(cfg.SongsDir(), parser)
	if err != nil {
		return nil, err
	}
	report.Log()

	book, err := songbook.Resolve(songs, meta)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg.TemplatesDir(), render.Site{
		Title:    cfg.Site.Title,
		BasePath: cfg.Site.BasePath,
	})
	if err != nil {
		return nil, err
	}
	pages, err := renderer.RenderAll(book)
	if err != nil {
		return nil, err
	}

	sync := &site.Synchronizer{Dest: cfg.Destination, Keep: cfg.Keep}
	syncReport, err := sync.Sync(pages, cfg.StaticDir())
	if err != nil {
		return nil, err
	}

	return &Result{
		Meta:       meta,
		Songs:      book.SongCount(),
		Categories: len(book.Categories),
		Pages:      len(pages),
		Skipped:    len(report.Failures),
		Conflicts:  syncReport.Conflicts,
	}, nil
}

func (b *Builder) nextVersion(ctx context.Context) (int64, error) {
	if b.Store == nil {
		return b.localVersion.Add(1), nil
	}
	return b.Store.NextVersion(ctx)
}

func (b *Builder) record(ctx context.Context, meta songbook.Meta, res *Result, started time.Time, buildErr error) {
	if b.Store == nil {
		return
	}
	rec := state.BuildRecord{
		BuildID:  meta.BuildID,
		Started:  started,
		Duration: time.Since(started),
		Status:   state.StatusSuccess,
	}
	if buildErr != nil {
		rec.Status = state.StatusError
		rec.Error = buildErr.Error()
	} else {
		rec.Songs = res.Songs
		rec.Pages = res.Pages
	}
	if err := b.Store.Record(ctx, rec); err != nil {
		slog.Warn("Failed to record build history", "error", err)
	}
}
