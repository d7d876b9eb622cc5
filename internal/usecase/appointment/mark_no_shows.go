package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
)

type MarkNoShows struct {
	repo    domain.Repository
	metrics *metrics.Collector
	log     *zap.Logger
	grace   time.Duration
}

func NewMarkNoShows(
	repo domain.Repository,
	m *metrics.Collector,
	log *zap.Logger,
	grace time.Duration,
) *MarkNoShows {
	return &MarkNoShows{repo: repo, metrics: m, log: log, grace: grace}
}

// Execute transitions every scheduled or confirmed appointment whose start
// is more than the grace period in the past to no_show. It sweeps all
// tenants in one pass; a failure on one row is logged and the rest of the
// batch still proceeds.
func (uc *MarkNoShows) Execute(ctx context.Context, now time.Time) (int, error) {
	threshold := now.Add(-uc.grace)

	candidates, err := uc.repo.FindNoShowCandidates(ctx, threshold)
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range candidates {
		ap := &candidates[i]
		if err := domain.MarkNoShow(ap); err != nil {
			continue
		}
		ap.UpdatedAt = now

		if err := uc.repo.Update(ctx, ap); err != nil {
			uc.log.Warn("failed to mark appointment as no-show",
				zap.String("appointment_id", ap.ID.String()),
				zap.Error(err),
			)
			continue
		}
		marked++
	}

	if marked > 0 {
		uc.metrics.NoShowsMarked.Add(float64(marked))
		uc.log.Info("no-show sweep marked appointments", zap.Int("count", marked))
	}
	return marked, nil
}
