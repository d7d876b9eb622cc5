package appointment

import (
	"context"

	"github.com/dentaldesk/clinic-scheduler/internal/clock"
	domain "github.com/dentaldesk/clinic-scheduler/internal/domain/appointment"
	scheduledomain "github.com/dentaldesk/clinic-scheduler/internal/domain/schedule"
	"github.com/dentaldesk/clinic-scheduler/internal/httperr"
)

type GetAvailableSlots struct {
	repo      domain.Repository
	schedules scheduledomain.Repository
}

func NewGetAvailableSlots(
	repo domain.Repository,
	schedules scheduledomain.Repository,
) *GetAvailableSlots {
	return &GetAvailableSlots{repo: repo, schedules: schedules}
}

// Execute walks the clinic's consolidated day window on a fixed 30-minute
// grid and emits every slot that no booked interval overlaps. The result is
// a pure function of the booked state: calling it twice with no intervening
// writes returns the same slots.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.Slot, error) {

	if !clock.ValidDate(in.Date) {
		return nil, httperr.ErrBusiness("invalid_date_or_time", "date must be YYYY-MM-DD")
	}

	configs, err := uc.schedules.ListActiveWorking(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	window := scheduledomain.Consolidate(configs)

	booked, err := uc.repo.ListBookedByDate(ctx, in.TenantID, in.Date, in.PractitionerID)
	if err != nil {
		return nil, err
	}

	dayStart := clock.MinutesOf(window.DayStart)
	dayEnd := clock.MinutesOf(window.DayEnd)

	slots := make([]domain.Slot, 0, (dayEnd-dayStart)/domain.SlotDurationMinutes)

	for cur := dayStart; cur+domain.SlotDurationMinutes <= dayEnd; cur += domain.SlotDurationMinutes {
		slotStart := clock.HM(cur)
		slotEnd := clock.HM(cur + domain.SlotDurationMinutes)

		free := true
		for _, ap := range booked {
			if domain.Overlaps(slotStart, slotEnd, ap.StartTime, ap.EndTime) {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, domain.Slot{
				Date:  in.Date,
				Start: slotStart,
				End:   slotEnd,
			})
		}
	}

	return slots, nil
}
