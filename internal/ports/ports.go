// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the monitoring core and its
// adapters. The core decides what to record and whom to notify; adapters run
// shell probes, persist history, deliver notifications and render pages.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ProbeRunner, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/ronde/internal/domain"
)

// ConfigProvider loads the configuration describing the probes to run.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProbeRunner executes a single probe. It never fails: every problem running
// the probe is reported as a failure outcome.
type ProbeRunner interface {
	Run(ctx context.Context, probe domain.ProbeConfig) domain.ProbeResult
}

// HistoryRepository loads and persists the whole history document.
// A missing store yields an empty history; unreadable content is an error
// wrapping domain.ErrHistoryCorrupt.
type HistoryRepository interface {
	Load(ctx context.Context) (*domain.History, error)
	Save(ctx context.Context, history *domain.History) error
	Path() string
}

// Notification is a message about one probe's state change.
type Notification struct {
	Probe      string
	Transition domain.Transition
	Title      string
	Message    string
}

// Notifier delivers notifications to a downstream channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// SnapshotRenderer publishes the post-rotation history as a status page.
type SnapshotRenderer interface {
	Render(ctx context.Context, site string, summary domain.Summary, history *domain.History) error
}

// MetricsExporter publishes per-run gauges.
type MetricsExporter interface {
	Export(summary domain.Summary, history *domain.History) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
