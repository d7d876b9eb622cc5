package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/lock"
	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
)

// guard bundles the pieces Create and Update share: interval validation,
// the two per-identity booking locks, and the party-by-party conflict probe.
type guard struct {
	repo    domain.Repository
	locker  lock.Locker
	metrics *metrics.Collector
}

// checkConflicts probes the patient's and the practitioner's calendars
// separately so the error names the conflicting party.
func (g guard) checkConflicts(ctx context.Context, q domain.ConflictQuery) error {
	patientQ := q
	patientQ.PractitionerID = nil
	conflict, err := g.repo.HasConflict(ctx, patientQ)
	if err != nil {
		return err
	}
	if conflict {
		g.metrics.ConflictsRejected.WithLabelValues("patient").Inc()
		return httperr.ErrBusiness("patient_conflict", "the patient already has an appointment in that time range")
	}

	practitionerQ := q
	practitionerQ.PatientID = nil
	conflict, err = g.repo.HasConflict(ctx, practitionerQ)
	if err != nil {
		return err
	}
	if conflict {
		g.metrics.ConflictsRejected.WithLabelValues("practitioner").Inc()
		return httperr.ErrBusiness("practitioner_conflict", "the practitioner already has an appointment in that time range")
	}
	return nil
}

// withBookingLocks nests the practitioner-calendar and patient-calendar
// locks around fn. The keys never nest in the reverse order anywhere, so
// there is no ordering deadlock.
func (g guard) withBookingLocks(
	ctx context.Context,
	tenantID uuid.UUID,
	practitionerID uuid.UUID,
	patientID uuid.UUID,
	date string,
	fn func(ctx context.Context) error,
) error {
	err := g.locker.WithBookingLock(ctx, tenantID, practitionerID, date, func(ctx context.Context) error {
		return g.locker.WithBookingLock(ctx, tenantID, patientID, date, fn)
	})
	if errors.Is(err, lock.ErrNotAcquired) {
		return httperr.ErrBusiness("schedule_busy", "another booking for this calendar is in progress, please retry")
	}
	return err
}

func validateInterval(date, start string, durationMinutes int) error {
	if !clock.ValidDate(date) {
		return httperr.ErrBusiness("invalid_date_or_time", "date must be YYYY-MM-DD")
	}
	if !clock.ValidHM(start) {
		return httperr.ErrBusiness("invalid_date_or_time", "start time must be HH:MM")
	}
	if durationMinutes <= 0 {
		return httperr.ErrBusiness("invalid_date_or_time", "duration must be positive")
	}
	return nil
}
