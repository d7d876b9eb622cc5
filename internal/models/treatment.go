package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Treatment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`

	PatientID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"patient_id"`
	PractitionerID uuid.UUID  `gorm:"type:uuid;index;not null" json:"practitioner_id"`
	AppointmentID  *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id"`

	Description string  `gorm:"size:255;not null" json:"description"`
	ToothCode   string  `gorm:"size:10" json:"tooth_code"`
	Cost        float64 `json:"cost"`
	PerformedAt string  `gorm:"size:10" json:"performed_at"`
	Notes       string  `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
