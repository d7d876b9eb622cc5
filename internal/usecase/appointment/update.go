package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/lock"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	ID       uuid.UUID
	TenantID uuid.UUID

	PatientID      uuid.UUID
	PractitionerID uuid.UUID

	Date            string
	StartTime       string
	DurationMinutes int

	Reason string
	Notes  string

	// Status, when non-empty, requests a state change validated against the
	// transition table.
	Status string
}

type UpdateAppointment struct {
	guard
	log *zap.Logger
}

func NewUpdateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	m *metrics.Collector,
	log *zap.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		guard: guard{repo: repo, locker: locker, metrics: m},
		log:   log,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetByID(ctx, in.TenantID, in.ID)
	if err != nil {
		return nil, err
	}

	if domain.Status(ap.Status) == domain.StatusCancelled {
		return nil, httperr.ErrBusiness("appointment_cancelled", "a cancelled appointment cannot be updated")
	}

	if err := validateInterval(in.Date, in.StartTime, in.DurationMinutes); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		return nil, httperr.ErrBusiness("missing_reason", "a reason for the appointment is required")
	}

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

	end := domain.EndOf(in.StartTime, in.DurationMinutes)

	// Only interval- or identity-affecting changes trigger conflict
	// re-validation; a notes-only edit never re-checks.
	intervalChanged := ap.Date != in.Date ||
		ap.StartTime != in.StartTime ||
		ap.DurationMinutes != in.DurationMinutes ||
		ap.PractitionerID != in.PractitionerID ||
		ap.PatientID != in.PatientID

	if in.Status != "" && in.Status != ap.Status {
		next := domain.Status(in.Status)
		if !next.Valid() {
			return nil, httperr.ErrBusiness("invalid_state", "unknown appointment status")
		}
		if next == domain.StatusNoShow {
			return nil, httperr.ErrBusiness("invalid_state", "no_show is applied by the system only")
		}
		if !domain.Status(ap.Status).CanTransitionTo(next) {
			return nil, httperr.ErrBusiness("invalid_state", "invalid status transition")
		}
	}

	apply := func(ctx context.Context) error {
		ap.PatientID = in.PatientID
		ap.PractitionerID = in.PractitionerID
		ap.Date = in.Date
		ap.StartTime = in.StartTime
		ap.EndTime = end
		ap.DurationMinutes = in.DurationMinutes
		ap.Reason = in.Reason
		ap.Notes = in.Notes
		if in.Status != "" {
			ap.Status = in.Status
		}
		ap.UpdatedAt = time.Now()
		return uc.repo.Update(ctx, ap)
	}

	if intervalChanged {
		err = uc.withBookingLocks(ctx, in.TenantID, in.PractitionerID, in.PatientID, in.Date, func(ctx context.Context) error {
			if err := uc.checkConflicts(ctx, domain.ConflictQuery{
				TenantID:       in.TenantID,
				Date:           in.Date,
				Start:          in.StartTime,
				End:            end,
				PractitionerID: &in.PractitionerID,
				PatientID:      &in.PatientID,
				ExcludeID:      &in.ID,
			}); err != nil {
				return err
			}
			return apply(ctx)
		})
	} else {
		err = apply(ctx)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info("appointment updated",
		zap.String("appointment_id", ap.ID.String()),
		zap.Bool("interval_changed", intervalChanged),
	)

	return uc.repo.GetByID(ctx, in.TenantID, ap.ID)
}
