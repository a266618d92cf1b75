package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	configapp "github.com/doeshing/ronde/internal/application/config"
	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// HistoryFactory opens the history repository described by a configuration.
type HistoryFactory func(cfg domain.Config) (ports.HistoryRepository, error)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Histories      HistoryFactory
	// Shell is the interpreter probes run with.
	Shell string
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("%d probe(s) configured", len(cfg.Probes))))

	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", err.Error()))
		return domain.HealthReport{Checks: checks}, nil
	}
	checks = append(checks, ok("Config validation", "passed"))

	checks = append(checks, s.shellCheck())
	checks = append(checks, s.historyCheck(ctx, cfg))
	checks = append(checks, outputCheck(cfg.OutputDir))
	if cfg.MetricsFile != "" {
		checks = append(checks, outputCheck(filepath.Dir(cfg.MetricsFile)))
		checks[len(checks)-1].Name = "Metrics dir"
	}
	checks = append(checks, notificationCheck(cfg.Notifications))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) shellCheck() domain.HealthCheck {
	shell := s.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fail("Shell", fmt.Sprintf("%s not usable: %v", shell, err))
	}
	return ok("Shell", shell)
}

func (s *Service) historyCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Histories == nil {
		return warn("History", "history repository not initialized")
	}
	repo, err := s.Histories(cfg)
	if err != nil {
		return fail("History", err.Error())
	}
	history, err := repo.Load(ctx)
	if err != nil {
		return fail("History", err.Error())
	}
	if len(history.Probes) == 0 {
		return warn("History", fmt.Sprintf("%s is empty or missing", repo.Path()))
	}
	return ok("History", fmt.Sprintf("%s: %d probe(s)", repo.Path(), len(history.Probes)))
}

func outputCheck(dir string) domain.HealthCheck {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return warn("Output dir", fmt.Sprintf("%s does not exist yet", dir))
		}
		return fail("Output dir", err.Error())
	}
	if !info.IsDir() {
		return fail("Output dir", fmt.Sprintf("%s is not a directory", dir))
	}
	probe, err := os.CreateTemp(dir, ".ronde-doctor-*")
	if err != nil {
		return fail("Output dir", fmt.Sprintf("%s is not writable: %v", dir, err))
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return ok("Output dir", dir)
}

func notificationCheck(n *domain.NotificationConfig) domain.HealthCheck {
	if n == nil || n.Pushover == nil {
		return warn("Notifications", "no transport configured, notifications are only logged")
	}
	details := "pushover"
	if n.MinutesBetweenContinuousFail != nil {
		details += fmt.Sprintf(", reminders every %d min", *n.MinutesBetweenContinuousFail)
	}
	return ok("Notifications", details)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
