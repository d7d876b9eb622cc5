package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NoShowMarker is the slice of the appointment use cases the sweeper
// drives. *appointment.MarkNoShows satisfies it.
type NoShowMarker interface {
	Execute(ctx context.Context, now time.Time) (int, error)
}

// Sweeper drives the periodic no-show transition in-process. It is
// serialized with itself (one run finishes before the next starts) and
// treats every run error as non-fatal: availability of the sweep matters
// more than any single iteration.
type Sweeper struct {
	marker NoShowMarker
	log    *zap.Logger

	startupDelay time.Duration
	interval     time.Duration
	runTimeout   time.Duration
}

func New(
	marker NoShowMarker,
	log *zap.Logger,
	startupDelay time.Duration,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		marker:       marker,
		log:          log,
		startupDelay: startupDelay,
		interval:     interval,
		runTimeout:   20 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Cancellation is observed while
// sleeping, both in the startup delay and between iterations.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("no-show sweeper starting",
		zap.Duration("startup_delay", s.startupDelay),
		zap.Duration("interval", s.interval),
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(s.startupDelay):
	}

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("no-show sweeper stopping")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Sweeper) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	start := time.Now()
	if _, err := s.marker.Execute(runCtx, time.Now()); err != nil {
		s.log.Error("no-show sweep run failed", zap.Error(err))
		return
	}
	s.log.Debug("no-show sweep run complete", zap.Duration("elapsed", time.Since(start)))
}
