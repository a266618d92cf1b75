package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// killGrace bounds how long Wait keeps reading pipes after the process was
// killed, so orphaned grandchildren holding stdout cannot stall a run.
const killGrace = 2 * time.Second

// LocalRunner runs probes through the host shell.
type LocalRunner struct {
	shell  string
	logger ports.Logger
}

// NewLocalRunner builds a runner, shell defaults to /bin/sh.
func NewLocalRunner(shell string, logger ports.Logger) *LocalRunner {
	if shell == "" {
		shell = "/bin/sh"
	}
	return &LocalRunner{shell: shell, logger: logger}
}

// Run implements ports.ProbeRunner.
func (r *LocalRunner) Run(ctx context.Context, probe domain.ProbeConfig) domain.ProbeResult {
	result := domain.ProbeResult{Name: probe.Name, Command: probe.Run}

	ctx, cancel := context.WithTimeout(ctx, probe.TimeoutDuration())
	defer cancel()

	c := exec.CommandContext(ctx, r.shell, "-c", probe.Run)
	c.WaitDelay = killGrace
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if probe.Cwd != "" {
		c.Dir = probe.Cwd
	}
	c.Env = buildEnv(probe)
	if err := applyCredentials(c, probe.UID, probe.GID); err != nil {
		result.Outcome = domain.OtherFailure(err.Error())
		return result
	}

	start := time.Now()
	err := c.Run()
	elapsed := time.Since(start)

	outText, errText := toText(stdout.Bytes()), toText(stderr.Bytes())
	result.Outcome = classify(ctx, err, probe.TimeoutSeconds(), outText, errText)

	if r.logger != nil {
		r.logger.Debug("probe finished", map[string]interface{}{
			"probe":       probe.Name,
			"outcome":     result.Outcome.Kind,
			"duration_ms": elapsed.Milliseconds(),
		})
	}
	return result
}

func classify(ctx context.Context, err error, timeout uint16, stdout, stderr string) domain.Outcome {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.Timeout(timeout)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return domain.OtherFailure("probe canceled")
	}
	if err == nil {
		return domain.Success(0, stdout, stderr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.CommandFailure(exitErr.ExitCode(), stdout, stderr)
	}
	return domain.OtherFailure(err.Error())
}

// buildEnv returns nil to inherit the environment untouched, or the explicit
// list when variables are added or the environment is cleared.
func buildEnv(probe domain.ProbeConfig) []string {
	if !probe.ClearEnv && len(probe.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(probe.Env))
	for k := range probe.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var env []string
	if !probe.ClearEnv {
		env = os.Environ()
	} else {
		env = []string{}
	}
	for _, k := range keys {
		env = append(env, k+"="+probe.Env[k])
	}
	return env
}

func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}

var _ ports.ProbeRunner = (*LocalRunner)(nil)
