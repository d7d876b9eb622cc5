package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/lock"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID       uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID

	Date            string // YYYY-MM-DD
	StartTime       string // HH:MM
	DurationMinutes int

	Reason string
	Notes  string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	guard
	log *zap.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	m *metrics.Collector,
	log *zap.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		guard: guard{repo: repo, locker: locker, metrics: m},
		log:   log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if err := validateInterval(in.Date, in.StartTime, in.DurationMinutes); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		return nil, httperr.ErrBusiness("missing_reason", "a reason for the appointment is required")
	}

	end := domain.EndOf(in.StartTime, in.DurationMinutes)

	if _, err := uc.repo.GetPatient(ctx, in.TenantID, in.PatientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("patient_not_found", "patient not found")
		}
		return nil, err
	}

	practitioner, err := uc.repo.GetPractitioner(ctx, in.TenantID, in.PractitionerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("practitioner_not_found", "practitioner not found")
		}
		return nil, err
	}
	if !practitioner.Active {
		return nil, httperr.ErrBusiness("practitioner_not_found", "practitioner is not active")
	}

	ap := &models.Appointment{
		TenantID:        in.TenantID,
		PatientID:       in.PatientID,
		PractitionerID:  in.PractitionerID,
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         end,
		DurationMinutes: in.DurationMinutes,
		Status:          string(domain.InitialStatus()),
		Reason:          in.Reason,
		Notes:           in.Notes,
	}

	// The locks close the window between the conflict checks and the
	// insert, nothing more: a conflict still surfaces as a domain error.
	err = uc.withBookingLocks(ctx, in.TenantID, in.PractitionerID, in.PatientID, in.Date, func(ctx context.Context) error {
		if err := uc.checkConflicts(ctx, domain.ConflictQuery{
			TenantID:       in.TenantID,
			Date:           in.Date,
			Start:          in.StartTime,
			End:            end,
			PractitionerID: &in.PractitionerID,
			PatientID:      &in.PatientID,
		}); err != nil {
			return err
		}
		return uc.repo.Create(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.AppointmentsCreated.Inc()
	uc.log.Info("appointment created",
		zap.String("appointment_id", ap.ID.String()),
		zap.String("tenant_id", in.TenantID.String()),
		zap.String("date", in.Date),
		zap.String("start", in.StartTime),
	)

	return uc.repo.GetByID(ctx, in.TenantID, ap.ID)
}
