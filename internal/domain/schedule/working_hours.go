package schedule

import "github.com/dentaldesk/clinic-scheduler/internal/models"

// WorkHours is the consolidated clinic-wide operating window for a tenant.
type WorkHours struct {
	DayStart string `json:"work_day_start"`
	DayEnd   string `json:"work_day_end"`
}

// Default applies when a tenant has no active configuration. Missing
// configuration is not an error.
var Default = WorkHours{DayStart: "09:00", DayEnd: "18:00"}

// Consolidate reduces the active working-day configs of a tenant to a single
// window: the earliest morning start across all rows, and the latest "last
// time of day". When an afternoon end exists it is always later than the
// morning end, so it is preferred without comparing both.
func Consolidate(configs []models.ScheduleConfig) WorkHours {
	if len(configs) == 0 {
		return Default
	}

	var start, end string
	for _, cfg := range configs {
		if cfg.MorningStart != "" && (start == "" || cfg.MorningStart < start) {
			start = cfg.MorningStart
		}
		last := cfg.AfternoonEnd
		if last == "" {
			last = cfg.MorningEnd
		}
		if last != "" && last > end {
			end = last
		}
	}

	wh := Default
	if start != "" {
		wh.DayStart = start
	}
	if end != "" {
		wh.DayEnd = end
	}
	return wh
}
