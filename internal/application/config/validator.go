package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/ronde/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if strings.TrimSpace(cfg.HistoryFile) == "" {
		return errors.New("history_file must be set")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("output_dir must be set")
	}
	if err := validateBackend(cfg.HistoryBackend); err != nil {
		return err
	}
	for i, probe := range cfg.Probes {
		if err := validateProbe(i, probe); err != nil {
			return err
		}
	}
	if err := cfg.CheckUniqueProbeNames(); err != nil {
		return err
	}
	if err := validateNotifications(cfg.Notifications); err != nil {
		return err
	}
	return nil
}

func validateBackend(backend domain.HistoryBackend) error {
	switch backend {
	case "", domain.HistoryBackendYAML, domain.HistoryBackendSQLite:
		return nil
	default:
		return fmt.Errorf("history_backend must be yaml|sqlite, got %s", backend)
	}
}

func validateProbe(idx int, probe domain.ProbeConfig) error {
	if strings.TrimSpace(probe.Name) == "" {
		return fmt.Errorf("commands[%d].name must be set", idx)
	}
	if strings.TrimSpace(probe.Run) == "" {
		return fmt.Errorf("command %s: run must be set", probe.Name)
	}
	for key := range probe.Env {
		if key == "" || strings.Contains(key, "=") {
			return fmt.Errorf("command %s: invalid environment variable name %q", probe.Name, key)
		}
	}
	return nil
}

func validateNotifications(n *domain.NotificationConfig) error {
	if n == nil || n.Pushover == nil {
		return nil
	}
	if n.Pushover.User == "" || n.Pushover.Token == "" {
		return errors.New("notifications.pushover requires user and token")
	}
	return nil
}
