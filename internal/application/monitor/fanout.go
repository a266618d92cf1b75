package monitor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// RunAll starts every probe at once and waits for all of them. Results keep
// the order of probes. Each probe is bounded by its own timeout.
func RunAll(ctx context.Context, r ports.ProbeRunner, probes []domain.ProbeConfig) []domain.ProbeResult {
	results := make([]domain.ProbeResult, len(probes))
	var g errgroup.Group
	for i, probe := range probes {
		g.Go(func() error {
			results[i] = r.Run(ctx, probe)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
