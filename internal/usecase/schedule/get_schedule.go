package schedule

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/schedule"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type GetSchedule struct {
	repo domain.Repository
}

func NewGetSchedule(repo domain.Repository) *GetSchedule {
	return &GetSchedule{repo: repo}
}

// Execute returns the weekly configuration for one practitioner, or the
// clinic-wide rows when practitionerID is nil, ordered by day of week.
func (uc *GetSchedule) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	practitionerID *uuid.UUID,
) ([]models.ScheduleConfig, error) {
	return uc.repo.ListByPractitioner(ctx, tenantID, practitionerID)
}
