// Package observability exports timer activity as prometheus metrics.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pomotray/internal/core/timekeeper"
)

var (
	sessionsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pomotray",
		Subsystem: "sessions",
		Name:      "completed_total",
		Help:      "Number of completed sessions, labeled by kind.",
	}, []string{"kind"})

	minutesCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pomotray",
		Subsystem: "sessions",
		Name:      "minutes_total",
		Help:      "Configured minutes of completed sessions, labeled by kind.",
	}, []string{"kind"})

	storageWarnings = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pomotray",
		Subsystem: "storage",
		Name:      "warnings_total",
		Help:      "Number of times history persistence was abandoned.",
	})

	timerRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pomotray",
		Subsystem: "timer",
		Name:      "running",
		Help:      "1 while the countdown is running, 0 otherwise.",
	})

	lastCompleted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pomotray",
		Subsystem: "sessions",
		Name:      "last_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recently completed session.",
	})
)

func init() {
	prometheus.MustRegister(sessionsCompleted, minutesCompleted, storageWarnings, timerRunning, lastCompleted)
}

// Record updates metrics from a single TimeKeeper event.
func Record(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventSessionComplete:
		if event.Session == nil {
			return
		}
		kind := string(event.Session.Kind)
		sessionsCompleted.WithLabelValues(kind).Inc()
		minutesCompleted.WithLabelValues(kind).Add(float64(event.Session.DurationMinutes))
		if !event.Session.CompletedAt.IsZero() {
			lastCompleted.Set(float64(event.Session.CompletedAt.Unix()))
		}
	case timekeeper.EventWarning:
		storageWarnings.Inc()
	case timekeeper.EventStateChange:
		if event.Running {
			timerRunning.Set(1)
		} else {
			timerRunning.Set(0)
		}
	}
}

// Observe records every event until the channel is closed.
func Observe(events <-chan timekeeper.Event) {
	for event := range events {
		Record(event)
	}
}

// ServerConfig contains tunables for the metrics server.
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer creates an *http.Server exposing /metrics.
func NewServer(cfg ServerConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Serve runs the metrics server until ctx is done.
func Serve(ctx context.Context, cfg ServerConfig, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	server := NewServer(cfg)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics: listening", "address", cfg.Address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("metrics: server stopped", "error", err)
	}
}
