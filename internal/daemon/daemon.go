// Package daemon runs the watch/serve loop: it observes the source tree,
// triggers serialized rebuilds, and serves the destination tree over HTTP.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/JiBB/songbook/internal/build"
	"github.com/JiBB/songbook/internal/config"
	"github.com/JiBB/songbook/internal/render"
	"github.com/JiBB/songbook/internal/songbook"
	"github.com/JiBB/songbook/internal/state"
)

// Status is the daemon's build state, exposed on /healthz.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusBuilding Status = "building"
	StatusError    Status = "error"
)

// Options configure a Daemon beyond its Config.
type Options struct {
	Serve bool // run the HTTP server
	Watch bool // rebuild on filesystem changes
}

// Daemon owns the watch/serve loop. Rebuilds are serialized: the loop runs
// them one at a time, and the Trigger collapses event bursts into at most one
// pending rebuild.
type Daemon struct {
	cfg     *config.Config
	opts    Options
	builder *build.Builder
	metrics *Metrics
	trigger *Trigger
	status  atomic.Value // Status
	addr    atomic.Value // string, set once the HTTP server is listening
}

// New creates a daemon. store may be nil for in-process build numbering.
func New(cfg *config.Config, store *state.Store, opts Options) *Daemon {
	d := &Daemon{
		cfg:     cfg,
		opts:    opts,
		builder: &build.Builder{Config: cfg, Store: store},
		metrics: NewMetrics(),
		trigger: NewTrigger(),
	}
	d.status.Store(StatusIdle)
	return d
}

// Status returns the current build state.
func (d *Daemon) Status() Status {
	return d.status.Load().(Status)
}

// Addr returns the HTTP listen address, or "" before serving starts.
func (d *Daemon) Addr() string {
	if v := d.addr.Load(); v != nil {
		return v.(string)
	}
	return ""
}

// Run performs the initial build and then loops until ctx is canceled.
// Fatal corpus errors (duplicate slugs, missing required templates) abort the
// process; anything else leaves the previous destination tree in place and
// returns the loop to idle.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.runBuild(ctx); err != nil {
		return err
	}

	if d.opts.Serve {
		if _, err := d.startHTTP(ctx); err != nil {
			return err
		}
	}

	if d.opts.Watch {
		watcher, err := newWatcher([]string{d.cfg.SongsDir(), d.cfg.TemplatesDir(), d.cfg.StaticDir()})
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
		go forwardEvents(ctx, watcher, d.trigger)
	}

	if d.cfg.Serve.RebuildEvery > 0 {
		stop, err := d.startScheduler()
		if err != nil {
			return err
		}
		defer stop()
	}

	if !d.opts.Watch && d.cfg.Serve.RebuildEvery == 0 {
		// Nothing will ever trigger a rebuild; just serve until interrupted.
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.trigger.Pending():
			d.quiesce(ctx)
			if err := d.runBuild(ctx); err != nil {
				return err
			}
		}
	}
}

// quiesce waits until no further change events have arrived for the
// configured quiet window, so one save burst becomes one build.
func (d *Daemon) quiesce(ctx context.Context) {
	timer := time.NewTimer(d.cfg.Serve.QuietWindow)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.trigger.Pending():
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.cfg.Serve.QuietWindow)
		case <-timer.C:
			return
		}
	}
}

// runBuild executes one serialized build, updating status and metrics.
// Returns an error only for fatal corpus failures.
func (d *Daemon) runBuild(ctx context.Context) error {
	d.status.Store(StatusBuilding)
	started := time.Now()

	res, err := d.builder.Run(ctx)
	if err != nil {
		d.metrics.ObserveBuild(state.StatusError, time.Since(started), -1)
		if isFatal(err) {
			d.status.Store(StatusError)
			return err
		}
		slog.Error("Rebuild failed, keeping previous output", "error", err)
		d.status.Store(StatusError)
		return nil
	}

	d.metrics.ObserveBuild(state.StatusSuccess, res.Duration, res.Songs)
	d.status.Store(StatusIdle)
	return nil
}

// isFatal reports whether a build error invalidates the whole corpus or
// render pass rather than one run's I/O.
func isFatal(err error) bool {
	var dup *songbook.DuplicateSlugError
	var tmpl *render.TemplateNotFoundError
	return errors.As(err, &dup) || errors.As(err, &tmpl)
}

func (d *Daemon) startScheduler() (func(), error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(d.cfg.Serve.RebuildEvery),
		gocron.NewTask(d.trigger.Request),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	slog.Info("Scheduled periodic rebuilds", "every", d.cfg.Serve.RebuildEvery)
	return func() { _ = scheduler.Shutdown() }, nil
}
