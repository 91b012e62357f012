package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const historyPageSize = 20

// startHTTP serves the destination tree plus the daemon endpoints. It binds
// immediately (port 0 picks a free port) and returns the actual address;
// serving and shutdown run in background goroutines tied to ctx.
func (d *Daemon) startHTTP(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", d.cfg.Serve.Port))
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", d.handleHealth)
	mux.Handle("/metrics", d.metrics.Handler())
	mux.HandleFunc("/api/builds", d.handleBuilds)

	// The file server reads the destination tree directly, so it always
	// serves whatever the latest completed (or in-flight) synchronization
	// left there; it never waits for a rebuild.
	files := d.metrics.CountRequest(http.FileServer(http.Dir(d.cfg.Destination)))
	if base := strings.TrimRight(d.cfg.Site.BasePath, "/"); base != "" {
		mux.Handle(base+"/", http.StripPrefix(base, files))
		mux.Handle("/", http.RedirectHandler(base+"/", http.StatusFound))
	} else {
		mux.Handle("/", files)
	}

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	addr := ln.Addr().String()
	d.addr.Store(addr)
	slog.Info("Serving songbook", "addr", addr, "dir", d.cfg.Destination)
	return addr, nil
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": string(d.Status()),
	})
}

func (d *Daemon) handleBuilds(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if d.builder.Store == nil {
		_ = json.NewEncoder(w).Encode([]any{})
		return
	}
	recent, err := d.builder.Store.Recent(r.Context(), historyPageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(recent)
}
