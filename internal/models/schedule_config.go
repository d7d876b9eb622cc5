package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleConfig is one weekday of recurring availability, clinic-wide when
// PractitionerID is nil. Window fields are HH:MM; empty means no window.
type ScheduleConfig struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	PractitionerID *uuid.UUID `gorm:"type:uuid;index" json:"practitioner_id"`

	DayOfWeek    int  `gorm:"not null" json:"day_of_week"`
	IsWorkingDay bool `json:"is_working_day"`

	MorningStart   string `gorm:"size:5" json:"morning_start"`
	MorningEnd     string `gorm:"size:5" json:"morning_end"`
	AfternoonStart string `gorm:"size:5" json:"afternoon_start"`
	AfternoonEnd   string `gorm:"size:5" json:"afternoon_end"`

	SlotDurationMinutes int  `gorm:"column:appointment_duration" json:"appointment_duration"`
	Active              bool `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *ScheduleConfig) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
