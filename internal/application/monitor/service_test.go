package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/logger"
	"github.com/doeshing/ronde/internal/ports"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type scriptedRunner struct {
	mu       sync.Mutex
	outcomes map[string]domain.Outcome
}

func (r *scriptedRunner) Run(_ context.Context, probe domain.ProbeConfig) domain.ProbeResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.ProbeResult{Name: probe.Name, Command: probe.Run, Outcome: r.outcomes[probe.Name]}
}

func (r *scriptedRunner) set(name string, o domain.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[name] = o
}

type memoryRepo struct {
	history *domain.History
	saves   int
	loadErr error
}

func (m *memoryRepo) Load(context.Context) (*domain.History, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.history == nil {
		return domain.NewHistory(), nil
	}
	return m.history, nil
}

func (m *memoryRepo) Save(_ context.Context, h *domain.History) error {
	m.history = h
	m.saves++
	return nil
}

func (m *memoryRepo) Path() string { return "memory" }

type recordingNotifier struct {
	sent []ports.Notification
	err  error
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(_ context.Context, msg ports.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type recordingRenderer struct {
	site    string
	summary domain.Summary
	calls   int
}

func (r *recordingRenderer) Render(_ context.Context, site string, summary domain.Summary, _ *domain.History) error {
	r.site = site
	r.summary = summary
	r.calls++
	return nil
}

type fakeAdapters struct {
	repo     *memoryRepo
	notifier *recordingNotifier
	renderer *recordingRenderer
	seenCfg  domain.Config
}

func (f *fakeAdapters) History(cfg domain.Config) (ports.HistoryRepository, error) {
	f.seenCfg = cfg
	return f.repo, nil
}
func (f *fakeAdapters) Renderer(domain.Config) ports.SnapshotRenderer { return f.renderer }
func (f *fakeAdapters) Notifier(domain.Config) ports.Notifier         { return f.notifier }
func (f *fakeAdapters) Metrics(domain.Config) ports.MetricsExporter   { return nil }

func uintPtr(v uint) *uint { return &v }

func newFixture() (*Service, *scriptedRunner, *fakeAdapters, *time.Time) {
	cfg := domain.Config{
		Name:        "Ronde",
		HistoryFile: "/var/lib/ronde/history.yaml",
		OutputDir:   "/var/www/ronde",
		Notifications: &domain.NotificationConfig{
			NotifyOnSuccessAfterFailure:  true,
			MinutesBetweenContinuousFail: uintPtr(60),
		},
		Probes: []domain.ProbeConfig{
			{Name: "web", Run: "curl -f http://localhost"},
			{Name: "disk", Run: "df /"},
		},
	}
	runner := &scriptedRunner{outcomes: map[string]domain.Outcome{
		"web":  domain.Success(0, "", ""),
		"disk": domain.Success(0, "", ""),
	}}
	adapters := &fakeAdapters{
		repo:     &memoryRepo{},
		notifier: &recordingNotifier{},
		renderer: &recordingRenderer{},
	}
	now := time.Date(2024, 2, 7, 10, 0, 0, 0, time.UTC)
	svc := &Service{
		ConfigProvider: staticConfig{cfg: cfg},
		Runner:         runner,
		Adapters:       adapters,
		Logger:         logger.NewStd(false),
		Now:            func() time.Time { return now },
	}
	return svc, runner, adapters, &now
}

func titles(ns []ports.Notification) []string {
	var out []string
	for _, n := range ns {
		out = append(out, n.Title)
	}
	return out
}

func TestRunLifecycle(t *testing.T) {
	svc, runner, adapters, now := newFixture()
	ctx := context.Background()

	report, err := svc.Run(ctx, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, domain.Summary{OK: 2}, report.Summary)
	assert.Empty(t, report.Notified)
	assert.Equal(t, []string{"web", "disk"}, adapters.repo.history.Names())
	assert.Equal(t, "Ronde", adapters.renderer.site)

	runner.set("web", domain.CommandFailure(7, "", "refused"))
	*now = now.Add(5 * time.Minute)
	report, err = svc.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{OK: 1, Failing: 1}, report.Summary)
	assert.Equal(t, []string{"New Failure of web"}, titles(report.Notified))

	web, ok := adapters.repo.history.Find("web")
	require.True(t, ok)
	require.NotNil(t, web.LastNotifiedAt)
	assert.True(t, web.LastNotifiedAt.Equal(*now))

	*now = now.Add(5 * time.Minute)
	report, err = svc.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Empty(t, report.Notified, "still inside the reminder cooldown")

	*now = now.Add(time.Hour)
	report, err = svc.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Still failing: web"}, titles(report.Notified))

	runner.set("web", domain.Success(0, "", ""))
	*now = now.Add(5 * time.Minute)
	report, err = svc.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Back from failure on web"}, titles(report.Notified))
	assert.Equal(t, 5, adapters.repo.saves)
	assert.Equal(t, 5, adapters.renderer.calls)
}

func TestRunPurgesRemovedProbes(t *testing.T) {
	svc, _, adapters, _ := newFixture()
	adapters.repo.history = &domain.History{Probes: []domain.ProbeHistory{
		{Name: "retired", Entries: []domain.HistoryEntry{{
			Timestamp: time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC),
			Outcome:   domain.Success(0, "", ""),
		}}},
		{Name: "disk"},
	}}

	_, err := svc.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"disk", "web"}, adapters.repo.history.Names())
}

func TestRunNoNotify(t *testing.T) {
	svc, runner, adapters, _ := newFixture()
	runner.set("disk", domain.Timeout(60))

	report, err := svc.Run(context.Background(), Options{NoNotify: true})
	require.NoError(t, err)
	assert.Empty(t, report.Notified)
	assert.Empty(t, adapters.notifier.sent)
}

func TestRunNotificationFailureStillSaves(t *testing.T) {
	svc, runner, adapters, _ := newFixture()
	runner.set("disk", domain.OtherFailure("exec: not found"))
	adapters.notifier.err = errors.New("pushover down")

	_, err := svc.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pushover down")
	assert.Equal(t, 1, adapters.repo.saves)
	assert.Equal(t, 1, adapters.renderer.calls)

	disk, ok := adapters.repo.history.Find("disk")
	require.True(t, ok)
	assert.Nil(t, disk.LastNotifiedAt)
}

func TestRunOverrides(t *testing.T) {
	svc, _, adapters, _ := newFixture()
	_, err := svc.Run(context.Background(), Options{HistoryFile: "/tmp/h.yaml", OutputDir: "/tmp/www"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.yaml", adapters.seenCfg.HistoryFile)
	assert.Equal(t, "/tmp/www", adapters.seenCfg.OutputDir)
}

func TestRunCorruptHistoryStops(t *testing.T) {
	svc, _, adapters, _ := newFixture()
	adapters.repo.loadErr = domain.ErrHistoryCorrupt

	_, err := svc.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, domain.ErrHistoryCorrupt)
	assert.Zero(t, adapters.repo.saves)
}

func TestRunInvalidConfig(t *testing.T) {
	svc, _, _, _ := newFixture()
	svc.ConfigProvider = staticConfig{cfg: domain.Config{
		HistoryFile: "h", OutputDir: "o",
		Probes: []domain.ProbeConfig{{Name: "a", Run: "true"}, {Name: "a", Run: "false"}},
	}}
	_, err := svc.Run(context.Background(), Options{})
	assert.ErrorIs(t, err, domain.ErrDuplicateProbeName)
}

func TestRunAllKeepsOrder(t *testing.T) {
	runner := &scriptedRunner{outcomes: map[string]domain.Outcome{
		"b": domain.CommandFailure(1, "", ""),
	}}
	probes := []domain.ProbeConfig{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	results := RunAll(context.Background(), runner, probes)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, domain.OutcomeCommandFailure, results[1].Outcome.Kind)
	assert.Equal(t, "c", results[2].Name)
}

type cancellingRunner struct {
	cancel context.CancelFunc
}

func (r cancellingRunner) Run(_ context.Context, probe domain.ProbeConfig) domain.ProbeResult {
	r.cancel()
	return domain.ProbeResult{Name: probe.Name, Command: probe.Run, Outcome: domain.OtherFailure("canceled")}
}

func TestRunInterruptedLeavesHistoryUntouched(t *testing.T) {
	svc, _, adapters, _ := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Runner = cancellingRunner{cancel: cancel}

	report, err := svc.Run(ctx, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, adapters.repo.saves)
	assert.Empty(t, adapters.notifier.sent)
	assert.Empty(t, report.Notified)
	assert.Zero(t, adapters.renderer.calls)
}
