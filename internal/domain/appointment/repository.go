package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

// ConflictQuery describes one conflict probe. At least one of PractitionerID
// and PatientID must be set; supplied identity filters AND together.
// ExcludeID skips the appointment being edited.
type ConflictQuery struct {
	TenantID       uuid.UUID
	Date           string
	Start          string
	End            string
	PractitionerID *uuid.UUID
	PatientID      *uuid.UUID
	ExcludeID      *uuid.UUID
}

type Repository interface {
	// -------- Appointment --------
	Create(ctx context.Context, ap *models.Appointment) error

	// GetByID returns only non-deleted appointments of the tenant.
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Appointment, error)

	Update(ctx context.Context, ap *models.Appointment) error

	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Appointment, error)

	ListByPractitioner(ctx context.Context, tenantID, practitionerID uuid.UUID) ([]models.Appointment, error)

	ListByDateRange(ctx context.Context, tenantID uuid.UUID, from, to string) ([]models.Appointment, error)

	ListByPatient(ctx context.Context, tenantID, patientID uuid.UUID) ([]models.Appointment, error)

	// -------- Conflict / availability --------
	HasConflict(ctx context.Context, q ConflictQuery) (bool, error)

	// ListBookedByDate returns the date's appointments that block other
	// bookings, ordered by start time, optionally for one practitioner.
	ListBookedByDate(ctx context.Context, tenantID uuid.UUID, date string, practitionerID *uuid.UUID) ([]models.Appointment, error)

	// -------- No-show sweep (cross-tenant) --------
	FindNoShowCandidates(ctx context.Context, threshold time.Time) ([]models.Appointment, error)

	// -------- Collaborators --------
	GetPatient(ctx context.Context, tenantID, id uuid.UUID) (*models.Patient, error)

	GetPractitioner(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
}
