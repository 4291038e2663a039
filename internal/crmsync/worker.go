package crmsync

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Default worker cadence.
const (
	DefaultSweepInterval = 5 * time.Minute
	DefaultStaleClaim    = 10 * time.Minute
)

// Worker periodically sweeps leads still owing a CRM sync and re-attempts
// them, bounded per pass. It also recovers claims orphaned by a crashed
// attempt. This is the background owner of eventual CRM consistency; the
// inline attempt after a submission is only an optimization.
type Worker struct {
	syncer     *Syncer
	interval   time.Duration
	staleAfter time.Duration
}

// WorkerOption configures the Worker
type WorkerOption func(*Worker)

// WithInterval overrides the sweep cadence
func WithInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithStaleClaimAge overrides how old a claim must be before it is recovered
func WithStaleClaimAge(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.staleAfter = d
		}
	}
}

// NewWorker creates a background sync worker.
func NewWorker(s *Syncer, opts ...WorkerOption) *Worker {
	w := &Worker{
		syncer:     s,
		interval:   DefaultSweepInterval,
		staleAfter: DefaultStaleClaim,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run sweeps until the context is cancelled. It is intended to be launched
// in its own goroutine at startup.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("crm sync worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("crm sync worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep runs one recovery-and-retry pass.
func (w *Worker) sweep(ctx context.Context) {
	released, err := w.syncer.store.ReleaseStaleClaims(ctx, w.staleAfter)
	if err != nil {
		log.Error().Err(err).Msg("releasing stale sync claims failed")
	} else if released > 0 {
		log.Warn().Int64("released", released).Msg("recovered stale sync claims")
	}

	summary, err := w.syncer.RetryPending(ctx, DefaultRetryBatch)
	if err != nil {
		log.Error().Err(err).Msg("sync sweep failed")
		return
	}

	if summary.Processed > 0 {
		synced := 0
		for _, r := range summary.Results {
			if r.Synced {
				synced++
			}
		}

		log.Info().Int("processed", summary.Processed).Int("synced", synced).Msg("sync sweep complete")
	}
}
