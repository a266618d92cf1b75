package app

import (
	"github.com/doeshing/ronde/internal/application/doctor"
	"github.com/doeshing/ronde/internal/application/monitor"
	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/infrastructure/config"
	"github.com/doeshing/ronde/internal/infrastructure/history"
	"github.com/doeshing/ronde/internal/infrastructure/metrics"
	"github.com/doeshing/ronde/internal/infrastructure/notify"
	"github.com/doeshing/ronde/internal/infrastructure/render"
	"github.com/doeshing/ronde/internal/infrastructure/runner"
	"github.com/doeshing/ronde/internal/pkg/logger"
	"github.com/doeshing/ronde/internal/ports"
)

// DefaultShell runs every probe command.
const DefaultShell = "/bin/sh"

// Container wires up application services with infrastructure adapters.
type Container struct {
	ConfigLoader   *config.FileLoader
	ConfigProvider ports.ConfigProvider
	Logger         ports.Logger
	Adapters       *Adapters
	MonitorService *monitor.Service
	DoctorService  *doctor.Service
}

// BuildContainer constructs the dependency graph for the configuration at
// configPath. An empty path falls back to RONDE_CONFIG or the default path.
// Nothing is loaded until a service runs.
func BuildContainer(configPath string, verbose bool) *Container {
	cfgLoader := config.NewFileLoader(configPath)
	log := logger.NewStd(verbose)
	adapters := &Adapters{Logger: log}

	monitorService := &monitor.Service{
		ConfigProvider: cfgLoader,
		Runner:         runner.NewLocalRunner(DefaultShell, log),
		Adapters:       adapters,
		Logger:         log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Histories:      adapters.History,
		Shell:          DefaultShell,
	}

	return &Container{
		ConfigLoader:   cfgLoader,
		ConfigProvider: cfgLoader,
		Logger:         log,
		Adapters:       adapters,
		MonitorService: monitorService,
		DoctorService:  doctorService,
	}
}

// Adapters builds the configuration dependent adapters.
type Adapters struct {
	Logger ports.Logger
}

// History opens the repository selected by history_backend.
func (a *Adapters) History(cfg domain.Config) (ports.HistoryRepository, error) {
	return history.ForConfig(cfg, "")
}

// Renderer writes the status page into output_dir.
func (a *Adapters) Renderer(cfg domain.Config) ports.SnapshotRenderer {
	return render.NewSiteRenderer(cfg.OutputDir, cfg.UID, cfg.GID)
}

// Notifier sends through Pushover when configured and logs otherwise.
func (a *Adapters) Notifier(cfg domain.Config) ports.Notifier {
	if cfg.Notifications != nil && cfg.Notifications.Pushover != nil {
		return notify.NewPushover(*cfg.Notifications.Pushover)
	}
	return notify.NewLogNotifier(a.Logger)
}

// Metrics returns nil unless metrics_file is set.
func (a *Adapters) Metrics(cfg domain.Config) ports.MetricsExporter {
	if cfg.MetricsFile == "" {
		return nil
	}
	return metrics.NewTextfileExporter(cfg.MetricsFile)
}

var _ monitor.Adapters = (*Adapters)(nil)
