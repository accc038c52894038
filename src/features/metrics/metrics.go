// Package metrics collects prometheus metrics for an import run and exports
// them to a node_exporter textfile.
package metrics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/photoimport/src/features/importing"
	"github.com/prometheus/client_golang/prometheus"
)

// Run holds the metrics of the current process.
type Run struct {
	registry  *prometheus.Registry
	files     *prometheus.CounterVec
	restarts  *prometheus.CounterVec
	durations prometheus.Histogram
	remaining prometheus.Gauge
	lastRun   prometheus.Gauge
}

// NewRun creates and registers the run metrics.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photoimport",
			Name:      "files_total",
			Help:      "Files dispatched to the importer, by outcome.",
		}, []string{"outcome"}),
		restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photoimport",
			Name:      "restarts_total",
			Help:      "Forced restarts of the host application, by reason.",
		}, []string{"reason"}),
		durations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photoimport",
			Name:      "import_duration_seconds",
			Help:      "Wall time of a single file import.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "photoimport",
			Name:      "queue_remaining",
			Help:      "Files left in the current pass.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "photoimport",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the metrics were last written.",
		}),
	}
	r.registry.MustRegister(r.files, r.restarts, r.durations, r.remaining, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records a driver event.
func (r *Run) Observe(ev importing.Event) {
	switch ev.Kind {
	case importing.EventOutcome:
		r.files.WithLabelValues(string(ev.Outcome)).Inc()
		r.durations.Observe(ev.Duration.Seconds())
		r.remaining.Set(float64(ev.Stats.Remaining()))
	case importing.EventRestart:
		r.restarts.WithLabelValues(string(ev.Reason)).Inc()
	}
}

// WriteTextfile writes the registry atomically for the node_exporter
// textfile collector. An empty path disables the export.
func (r *Run) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	r.lastRun.Set(float64(time.Now().Unix()))
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	slog.Debug("Run.WriteTextfile: metrics written", "path", path)
	return nil
}
