package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type Repository interface {
	// ListByPractitioner returns the active rows for one practitioner, or
	// the clinic-wide (nil practitioner) rows, ordered by day of week.
	ListByPractitioner(ctx context.Context, tenantID uuid.UUID, practitionerID *uuid.UUID) ([]models.ScheduleConfig, error)

	// ListActiveWorking returns every active working-day row belonging to
	// an active dentist of the tenant, the input to Consolidate.
	ListActiveWorking(ctx context.Context, tenantID uuid.UUID) ([]models.ScheduleConfig, error)

	// UpsertByDay replaces, in one transaction, the rows for exactly the
	// days present in configs: matching rows are updated in place, missing
	// ones inserted, other days untouched. Any failure rolls back the batch.
	UpsertByDay(ctx context.Context, tenantID uuid.UUID, practitionerID *uuid.UUID, configs []models.ScheduleConfig) error
}
