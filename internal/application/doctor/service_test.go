package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type emptyRepo struct{ path string }

func (r emptyRepo) Load(context.Context) (*domain.History, error) { return domain.NewHistory(), nil }
func (r emptyRepo) Save(context.Context, *domain.History) error    { return nil }
func (r emptyRepo) Path() string                                    { return r.path }

func statuses(report domain.HealthReport) map[string]domain.HealthStatus {
	out := make(map[string]domain.HealthStatus, len(report.Checks))
	for _, c := range report.Checks {
		out[c.Name] = c.Status
	}
	return out
}

func TestDoctorHealthyConfig(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		ConfigProvider: staticConfig{cfg: domain.Config{
			HistoryFile: filepath.Join(dir, "history.yaml"),
			OutputDir:   dir,
			Notifications: &domain.NotificationConfig{
				Pushover: &domain.PushoverConfig{User: "u", Token: "t"},
			},
			Probes: []domain.ProbeConfig{{Name: "a", Run: "true"}},
		}},
		Histories: func(cfg domain.Config) (ports.HistoryRepository, error) {
			return emptyRepo{path: cfg.HistoryFile}, nil
		},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := statuses(report)
	want := map[string]domain.HealthStatus{
		"Config file":       domain.HealthOK,
		"Config validation": domain.HealthOK,
		"Shell":             domain.HealthOK,
		"History":           domain.HealthWarn,
		"Output dir":        domain.HealthOK,
		"Notifications":     domain.HealthOK,
	}
	for name, status := range want {
		if got[name] != status {
			t.Errorf("%s = %s, want %s", name, got[name], status)
		}
	}
	if report.Failed() {
		t.Fatalf("report should not fail: %+v", report.Checks)
	}
}

func TestDoctorInvalidConfig(t *testing.T) {
	svc := &Service{ConfigProvider: staticConfig{cfg: domain.Config{}}}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !report.Failed() {
		t.Fatalf("expected failing report, got %+v", report.Checks)
	}
}

func TestDoctorConfigLoadError(t *testing.T) {
	svc := &Service{ConfigProvider: staticConfig{err: errors.New("missing")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(report.Checks) != 1 || report.Checks[0].Status != domain.HealthError {
		t.Fatalf("unexpected checks %+v", report.Checks)
	}
}

func TestOutputCheckMissingDir(t *testing.T) {
	check := outputCheck(filepath.Join(t.TempDir(), "nope"))
	if check.Status != domain.HealthWarn {
		t.Fatalf("status = %s, want warn", check.Status)
	}
}
