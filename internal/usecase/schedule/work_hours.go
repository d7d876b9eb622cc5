package schedule

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/schedule"
)

type GetConsolidatedWorkHours struct {
	repo domain.Repository
}

func NewGetConsolidatedWorkHours(repo domain.Repository) *GetConsolidatedWorkHours {
	return &GetConsolidatedWorkHours{repo: repo}
}

// Execute reduces the tenant's active dentist schedules to one clinic-wide
// window. A tenant with no configuration gets the default, silently.
func (uc *GetConsolidatedWorkHours) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
) (domain.WorkHours, error) {

	configs, err := uc.repo.ListActiveWorking(ctx, tenantID)
	if err != nil {
		return domain.WorkHours{}, err
	}
	return domain.Consolidate(configs), nil
}
