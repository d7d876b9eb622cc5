package appointment

import (
	"time"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm is idempotent: confirming an already confirmed appointment
// succeeds. Any terminal state rejects.
func Confirm(ap *models.Appointment) error {
	current := Status(ap.Status)
	if current == StatusConfirmed {
		return nil
	}
	if !current.CanTransitionTo(StatusConfirmed) {
		return httperr.ErrBusiness("invalid_state", "appointment cannot be confirmed in its current state")
	}
	ap.Status = string(StatusConfirmed)
	return nil
}

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if !Status(ap.Status).CanTransitionTo(StatusCancelled) {
		return httperr.ErrBusiness("invalid_state", "appointment cannot be cancelled in its current state")
	}
	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledAt = &now
	return nil
}

// MarkNoShow is the system-driven transition applied by the sweep; it is
// never reachable through the API.
func MarkNoShow(ap *models.Appointment) error {
	if !Status(ap.Status).CanTransitionTo(StatusNoShow) {
		return httperr.ErrBusiness("invalid_state", "appointment cannot be marked as no-show in its current state")
	}
	ap.Status = string(StatusNoShow)
	return nil
}

// ActiveForScheduling is the single predicate deciding whether an
// appointment blocks other bookings: cancelled rows and soft-deleted rows do
// not, everything else (including no-shows) does.
func ActiveForScheduling(ap *models.Appointment) bool {
	return ap.DeletedAt == nil && Status(ap.Status) != StatusCancelled
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching at a boundary (e1 == s2) is not a conflict.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// EndOf computes the exclusive end of an interval starting at an HH:MM time.
func EndOf(start string, durationMinutes int) string {
	return clock.AddMinutes(start, durationMinutes)
}
