package schedule

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/schedule"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

type DayConfigInput struct {
	DayOfWeek    int
	IsWorkingDay bool

	MorningStart   string
	MorningEnd     string
	AfternoonStart string
	AfternoonEnd   string

	SlotDurationMinutes int
}

type UpsertSchedule struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewUpsertSchedule(repo domain.Repository, log *zap.Logger) *UpsertSchedule {
	return &UpsertSchedule{repo: repo, log: log}
}

// Execute validates and bulk-replaces the rows for the days present in the
// input; rows for other days stay untouched. The repository applies the
// batch in one transaction.
func (uc *UpsertSchedule) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	practitionerID *uuid.UUID,
	days []DayConfigInput,
) error {

	configs := make([]models.ScheduleConfig, 0, len(days))
	for _, d := range days {
		if err := validateDay(d); err != nil {
			return err
		}

		duration := d.SlotDurationMinutes
		if duration <= 0 {
			duration = 30
		}

		configs = append(configs, models.ScheduleConfig{
			DayOfWeek:           d.DayOfWeek,
			IsWorkingDay:        d.IsWorkingDay,
			MorningStart:        d.MorningStart,
			MorningEnd:          d.MorningEnd,
			AfternoonStart:      d.AfternoonStart,
			AfternoonEnd:        d.AfternoonEnd,
			SlotDurationMinutes: duration,
		})
	}

	if err := uc.repo.UpsertByDay(ctx, tenantID, practitionerID, configs); err != nil {
		return err
	}

	uc.log.Info("schedule configuration upserted",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("days", len(configs)),
	)
	return nil
}

func validateDay(d DayConfigInput) error {
	if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
		return httperr.ErrBusiness("invalid_schedule", "day of week must be 0-6")
	}

	if !d.IsWorkingDay {
		if d.MorningStart != "" || d.MorningEnd != "" || d.AfternoonStart != "" || d.AfternoonEnd != "" {
			return httperr.ErrBusiness("invalid_schedule", "non-working days cannot carry time windows")
		}
		return nil
	}

	if err := validateWindow(d.MorningStart, d.MorningEnd); err != nil {
		return err
	}
	return validateWindow(d.AfternoonStart, d.AfternoonEnd)
}

func validateWindow(start, end string) error {
	if start == "" && end == "" {
		return nil
	}
	if start == "" || end == "" {
		return httperr.ErrBusiness("invalid_schedule", "a time window needs both start and end")
	}
	if !clock.ValidHM(start) || !clock.ValidHM(end) {
		return httperr.ErrBusiness("invalid_schedule", "window times must be HH:MM")
	}
	if start >= end {
		return httperr.ErrBusiness("invalid_schedule", "window start must be before its end")
	}
	return nil
}
