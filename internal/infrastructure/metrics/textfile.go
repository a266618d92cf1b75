// Package metrics exports run results in the Prometheus text format, for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

const namespace = "ronde"

// TextfileExporter rewrites a .prom file after every run.
type TextfileExporter struct {
	path string
	now  func() time.Time
}

func NewTextfileExporter(path string) *TextfileExporter {
	return &TextfileExporter{path: path, now: time.Now}
}

// Export implements ports.MetricsExporter.
func (e *TextfileExporter) Export(summary domain.Summary, history *domain.History) error {
	registry := Collect(summary, history, e.now())
	if err := prometheus.WriteToTextfile(e.path, registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", e.path, err)
	}
	return nil
}

// Collect builds a registry holding the gauges of one run.
func Collect(summary domain.Summary, history *domain.History, at time.Time) *prometheus.Registry {
	up := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "probe_up",
		Help:      "1 when the latest run of the probe succeeded.",
	}, []string{"probe"})
	entries := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "probe_history_entries",
		Help:      "Entries kept in the probe history after rotation.",
	}, []string{"probe"})
	ok := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "probes_ok",
		Help:      "Probes whose latest run succeeded.",
	})
	failing := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "probes_failing",
		Help:      "Probes whose latest run failed.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last ronde run.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(up, entries, ok, failing, lastRun)

	for i := range history.Probes {
		p := &history.Probes[i]
		entries.WithLabelValues(p.Name).Set(float64(len(p.Entries)))
		if last, found := p.Latest(); found {
			value := 1.0
			if last.IsFailure() {
				value = 0
			}
			up.WithLabelValues(p.Name).Set(value)
		}
	}
	ok.Set(float64(summary.OK))
	failing.Set(float64(summary.Failing))
	lastRun.Set(float64(at.Unix()))
	return registry
}

var _ ports.MetricsExporter = (*TextfileExporter)(nil)
