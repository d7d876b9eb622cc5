package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type ListAppointmentsInput struct {
	TenantID uuid.UUID

	// PractitionerID restricts to one calendar; non-admin callers always
	// set it to themselves.
	PractitionerID *uuid.UUID
	PatientID      *uuid.UUID

	// From/To are an optional inclusive date range.
	From string
	To   string
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	switch {
	case in.PatientID != nil:
		return uc.repo.ListByPatient(ctx, in.TenantID, *in.PatientID)
	case in.From != "" && in.To != "":
		return uc.repo.ListByDateRange(ctx, in.TenantID, in.From, in.To)
	case in.PractitionerID != nil:
		return uc.repo.ListByPractitioner(ctx, in.TenantID, *in.PractitionerID)
	default:
		return uc.repo.ListByTenant(ctx, in.TenantID)
	}
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	id uuid.UUID,
) (*models.Appointment, error) {
	return uc.repo.GetByID(ctx, tenantID, id)
}
