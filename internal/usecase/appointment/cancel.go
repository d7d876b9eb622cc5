package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type CancelAppointment struct {
	repo    domain.Repository
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewCancelAppointment(repo domain.Repository, m *metrics.Collector, log *zap.Logger) *CancelAppointment {
	return &CancelAppointment{repo: repo, metrics: m, log: log}
}

// Execute cancels the appointment: terminal status plus CancelledAt stamp.
// The row stays live for history; Delete is the separate soft-delete.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := domain.Cancel(ap, reason, now); err != nil {
		return nil, err
	}
	ap.UpdatedAt = now

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	uc.metrics.Cancellations.Inc()
	uc.log.Info("appointment cancelled", zap.String("appointment_id", id.String()))
	return ap, nil
}
