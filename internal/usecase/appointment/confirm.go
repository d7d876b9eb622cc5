package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type ConfirmAppointment struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewConfirmAppointment(repo domain.Repository, log *zap.Logger) *ConfirmAppointment {
	return &ConfirmAppointment{repo: repo, log: log}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}
	ap.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}

	uc.log.Info("appointment confirmed", zap.String("appointment_id", id.String()))
	return ap, nil
}
