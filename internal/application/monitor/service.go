// Package monitor runs one ronde invocation: probes, history bookkeeping,
// notifications and publishing.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	configapp "github.com/doeshing/ronde/internal/application/config"
	"github.com/doeshing/ronde/internal/application/notification"
	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// Adapters builds the adapters that depend on the loaded configuration.
type Adapters interface {
	History(cfg domain.Config) (ports.HistoryRepository, error)
	Renderer(cfg domain.Config) ports.SnapshotRenderer
	Notifier(cfg domain.Config) ports.Notifier
	// Metrics returns nil when no metrics file is configured.
	Metrics(cfg domain.Config) ports.MetricsExporter
}

// Options override parts of the configuration for one run.
type Options struct {
	HistoryFile string
	OutputDir   string
	NoNotify    bool
}

// Report describes a finished run.
type Report struct {
	RunID    string
	Summary  domain.Summary
	Results  []domain.ProbeResult
	Notified []ports.Notification
}

// Service orchestrates one invocation end-to-end.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Runner         ports.ProbeRunner
	Adapters       Adapters
	Logger         ports.Logger
	Now            func() time.Time
}

// Run executes every configured probe and records the results.
//
// Notification failures do not stop the run: history, page and metrics are
// still written and the failures are returned joined afterwards.
func (s *Service) Run(ctx context.Context, opts Options) (Report, error) {
	if s.ConfigProvider == nil || s.Runner == nil || s.Adapters == nil || s.Logger == nil {
		return Report{}, errors.New("monitor.Service dependencies not satisfied")
	}
	report := Report{RunID: uuid.NewString()}
	fields := func(extra map[string]interface{}) map[string]interface{} {
		f := map[string]interface{}{"run": report.RunID}
		for k, v := range extra {
			f[k] = v
		}
		return f
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load config: %w", err)
	}
	if opts.HistoryFile != "" {
		cfg.HistoryFile = opts.HistoryFile
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if err := configapp.Validate(cfg); err != nil {
		return report, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := s.Adapters.History(cfg)
	if err != nil {
		return report, err
	}
	history, err := repo.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load history: %w", err)
	}

	s.Logger.Info("running probes", fields(map[string]interface{}{"count": len(cfg.Probes)}))
	results := RunAll(ctx, s.Runner, cfg.Probes)
	// An interrupted run leaves the stored history untouched.
	if err := ctx.Err(); err != nil {
		s.Logger.Warn("run interrupted, history left unchanged", fields(nil))
		return report, fmt.Errorf("run interrupted: %w", err)
	}
	for _, r := range results {
		s.Logger.Debug("probe finished", fields(map[string]interface{}{
			"probe":   r.Name,
			"outcome": string(r.Outcome.Kind),
		}))
	}
	report.Results = results
	report.Summary = domain.SummaryFromResults(results)

	history.Update(results, s.now())
	history.Purge(cfg.ProbeNames())
	history.Retag()
	history.Rotate()

	var errs []error
	if !opts.NoNotify {
		notified, notifyErrs := s.notify(ctx, cfg, history, fields)
		report.Notified = notified
		errs = append(errs, notifyErrs...)
	}

	if err := s.Adapters.Renderer(cfg).Render(ctx, cfg.Name, report.Summary, history); err != nil {
		s.Logger.Error("render failed", err, fields(nil))
		errs = append(errs, fmt.Errorf("render: %w", err))
	}
	if exporter := s.Adapters.Metrics(cfg); exporter != nil {
		if err := exporter.Export(report.Summary, history); err != nil {
			s.Logger.Error("metrics export failed", err, fields(nil))
			errs = append(errs, fmt.Errorf("metrics: %w", err))
		}
	}
	if err := repo.Save(ctx, history); err != nil {
		errs = append(errs, fmt.Errorf("save history: %w", err))
	}

	s.Logger.Info("run complete", fields(map[string]interface{}{
		"ok":      report.Summary.OK,
		"failing": report.Summary.Failing,
	}))
	return report, errors.Join(errs...)
}

func (s *Service) notify(
	ctx context.Context,
	cfg domain.Config,
	history *domain.History,
	fields func(map[string]interface{}) map[string]interface{},
) ([]ports.Notification, []error) {
	notifier := s.Adapters.Notifier(cfg)
	var sent []ports.Notification
	var errs []error
	for _, intent := range notification.NewDecider(cfg).Decide(history) {
		n := intent.Notification
		if err := notifier.Notify(ctx, n); err != nil {
			s.Logger.Error("notification failed", err, fields(map[string]interface{}{
				"probe":    n.Probe,
				"notifier": notifier.Name(),
			}))
			errs = append(errs, fmt.Errorf("notify %s: %w", n.Probe, err))
			continue
		}
		if probe, ok := history.Find(n.Probe); ok {
			probe.MarkNotified(intent.At)
		}
		sent = append(sent, n)
	}
	return sent, errs
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
