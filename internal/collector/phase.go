package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/orgscan/orgscan/internal/audit"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/model"
)

// runState is the accumulated state a run's phases share. Phases mutate
// it in sequence; the collector reads it once all phases finish.
type runState struct {
	request  model.CollectionRequest
	store    *evidence.Store
	auditLog *audit.Log

	// urls is filled by the discovery phase and consumed by the crawl.
	urls []string
}

// runPhase is one stage of a collection run.
//
// Design decision: an interface rather than function values because
// phases carry their own dependencies and a Name() for the audit trail.
// Phase failures other than context cancellation are recorded and the
// sequence continues: a blocked search backend must not discard a
// finished crawl.
type runPhase interface {
	// Do executes the phase against the shared run state.
	Do(ctx context.Context, state *runState) error

	// Name returns the phase name for logs and audit entries.
	Name() string
}

// sequence runs the phases in order. Context cancellation stops the
// sequence and is returned; any other phase error is logged, recorded in
// the audit trail, and skipped.
func sequence(ctx context.Context, logger *slog.Logger, state *runState, phases ...runPhase) error {
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		logger.Info("phase start", slog.String("phase", p.Name()))

		err := p.Do(ctx, state)
		elapsed := time.Since(start)

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("phase failed",
				slog.String("phase", p.Name()),
				slog.String("error", err.Error()),
				slog.Duration("elapsed", elapsed))
			state.auditLog.Record(p.Name(), "phase-failed", "", state.request.Domain,
				err.Error(), "", 0, elapsed)
			continue
		}

		logger.Info("phase complete",
			slog.String("phase", p.Name()),
			slog.Int("evidence_total", state.store.Len()),
			slog.Duration("elapsed", elapsed))
	}
	return nil
}
