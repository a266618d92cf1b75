package app

import (
	"testing"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/infrastructure/history"
	"github.com/doeshing/ronde/internal/infrastructure/metrics"
	"github.com/doeshing/ronde/internal/infrastructure/notify"
)

func TestBuildContainer(t *testing.T) {
	c := BuildContainer("/etc/ronde/test.yaml", false)
	if c.MonitorService == nil || c.DoctorService == nil {
		t.Fatal("services not wired")
	}
	if got := c.ConfigLoader.Path(); got != "/etc/ronde/test.yaml" {
		t.Fatalf("config path = %q", got)
	}
}

func TestAdaptersFollowConfig(t *testing.T) {
	a := &Adapters{Logger: nil}
	cfg := domain.Config{HistoryFile: "/tmp/h.db", HistoryBackend: domain.HistoryBackendSQLite}

	repo, err := a.History(cfg)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if _, ok := repo.(*history.SQLiteStore); !ok {
		t.Fatalf("History() = %T, want *history.SQLiteStore", repo)
	}

	if _, ok := a.Notifier(cfg).(*notify.LogNotifier); !ok {
		t.Fatal("expected log notifier without pushover")
	}
	cfg.Notifications = &domain.NotificationConfig{Pushover: &domain.PushoverConfig{User: "u", Token: "t"}}
	if _, ok := a.Notifier(cfg).(*notify.Pushover); !ok {
		t.Fatal("expected pushover notifier")
	}

	if a.Metrics(cfg) != nil {
		t.Fatal("metrics should be disabled without metrics_file")
	}
	cfg.MetricsFile = "/tmp/ronde.prom"
	if _, ok := a.Metrics(cfg).(*metrics.TextfileExporter); !ok {
		t.Fatal("expected textfile exporter")
	}
}
