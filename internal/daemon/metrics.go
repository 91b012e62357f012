package daemon

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the daemon's Prometheus collectors on a private registry.
type Metrics struct {
	registry      *prom.Registry
	buildOutcome  *prom.CounterVec
	buildDuration prom.Histogram
	songsLoaded   prom.Gauge
	httpRequests  prom.Counter
}

// NewMetrics constructs and registers the daemon metrics.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prom.NewRegistry()}
	m.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "songbook",
		Name:      "builds_total",
		Help:      "Build outcomes by final status",
	}, []string{"status"})
	m.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "songbook",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	m.songsLoaded = prom.NewGauge(prom.GaugeOpts{
		Namespace: "songbook",
		Name:      "songs_loaded",
		Help:      "Songs in the last successful build",
	})
	m.httpRequests = prom.NewCounter(prom.CounterOpts{
		Namespace: "songbook",
		Name:      "http_requests_total",
		Help:      "Requests served from the destination tree",
	})
	m.registry.MustRegister(m.buildOutcome, m.buildDuration, m.songsLoaded, m.httpRequests)
	return m
}

// ObserveBuild records one finished build.
func (m *Metrics) ObserveBuild(status string, d time.Duration, songs int) {
	m.buildOutcome.WithLabelValues(status).Inc()
	m.buildDuration.Observe(d.Seconds())
	if songs >= 0 {
		m.songsLoaded.Set(float64(songs))
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// CountRequest wraps a handler with the request counter.
func (m *Metrics) CountRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpRequests.Inc()
		next.ServeHTTP(w, r)
	})
}
