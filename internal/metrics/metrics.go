// Package metrics exposes Prometheus collectors for the frame driver, the
// background raster cache and the SSH server, plus the /metrics endpoint.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sneakbit"

// RasterStats reports the work of a raster cache.
type RasterStats interface {
	Builds() int64
	Hits() int64
}

// Metrics holds the collectors of one process.
type Metrics struct {
	frames        prometheus.Counter
	frameDuration prometheus.Histogram
	sessions      prometheus.Gauge
	sessionsTotal prometheus.Counter
	reg           prometheus.Registerer
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames run by every driver.",
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent in one frame: input, update and bookkeeping.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.05},
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ssh",
			Name:      "sessions",
			Help:      "Open SSH game sessions.",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ssh",
			Name:      "sessions_total",
			Help:      "SSH game sessions started.",
		}),
		reg: reg,
	}
	reg.MustRegister(m.frames, m.frameDuration, m.sessions, m.sessionsTotal)
	return m
}

// ObserveFrame records one frame.
func (m *Metrics) ObserveFrame(d time.Duration) {
	m.frames.Inc()
	m.frameDuration.Observe(d.Seconds())
}

// SessionStarted counts a new SSH session.
func (m *Metrics) SessionStarted() {
	m.sessions.Inc()
	m.sessionsTotal.Inc()
}

// SessionEnded counts a closed SSH session.
func (m *Metrics) SessionEnded() {
	m.sessions.Dec()
}

// WatchRasters exports the counters of a raster cache.
func (m *Metrics) WatchRasters(s RasterStats) {
	m.reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "raster",
			Name:      "builds_total",
			Help:      "Background rasters rendered from tiles.",
		}, func() float64 { return float64(s.Builds()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "raster",
			Name:      "hits_total",
			Help:      "Background rasters served from memory or disk.",
		}, func() float64 { return float64(s.Hits()) }),
	)
}

// Serve exposes g on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
