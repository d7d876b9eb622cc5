package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment reserves the half-open interval [StartTime, EndTime) on Date
// for one patient and one practitioner. Date is YYYY-MM-DD and the times are
// HH:MM so overlap predicates are plain string comparisons in SQL.
type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	PatientID uuid.UUID `gorm:"type:uuid;index;not null" json:"patient_id"`
	Patient   Patient   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	PractitionerID uuid.UUID `gorm:"type:uuid;index;not null" json:"practitioner_id"`
	Practitioner   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"practitioner"`

	Date            string `gorm:"size:10;index;not null" json:"appointment_date"`
	StartTime       string `gorm:"size:5;not null" json:"start_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Reason string `gorm:"size:255;not null" json:"reason"`
	Notes  string `gorm:"size:500" json:"notes"`

	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
