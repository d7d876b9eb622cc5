package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewDeleteAppointment(repo domain.Repository, log *zap.Logger) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, log: log}
}

// Execute soft-deletes: the row keeps its history but disappears from every
// active-appointment query, conflict detection included.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
) error {

	ap, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	now := time.Now()
	ap.DeletedAt = &now
	ap.UpdatedAt = now

	if err := uc.repo.Update(ctx, ap); err != nil {
		return err
	}

	uc.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return nil
}
