package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tooth conditions recorded on the dental chart.
const (
	ToothHealthy   = "healthy"
	ToothTreated   = "treated"
	ToothPending   = "pending"
	ToothExtracted = "extracted"
	ToothCaries    = "caries"
	ToothRootCanal = "root_canal"
	ToothCrown     = "crown"
	ToothImplant   = "implant"
)

// ToothNumbers lists the 32 permanent teeth in FDI notation, one quadrant
// at a time.
var ToothNumbers = []int{
	11, 12, 13, 14, 15, 16, 17, 18,
	21, 22, 23, 24, 25, 26, 27, 28,
	31, 32, 33, 34, 35, 36, 37, 38,
	41, 42, 43, 44, 45, 46, 47, 48,
}

// ValidToothNumber reports whether n is an FDI permanent-tooth number
// (11-18, 21-28, 31-38 or 41-48).
func ValidToothNumber(n int) bool {
	quadrant := n / 10
	position := n % 10
	return quadrant >= 1 && quadrant <= 4 && position >= 1 && position <= 8
}

func ValidToothCondition(s string) bool {
	switch s {
	case ToothHealthy, ToothTreated, ToothPending, ToothExtracted,
		ToothCaries, ToothRootCanal, ToothCrown, ToothImplant:
		return true
	}
	return false
}

// OdontogramEntry is one recorded observation of a tooth. The chart is
// append-oriented: the newest entry per tooth is that tooth's current
// state and the full set is its history. Entries are removed physically,
// there is no soft delete.
type OdontogramEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
	PatientID uuid.UUID `gorm:"type:uuid;index;not null" json:"patient_id"`

	ToothNumber int    `gorm:"not null;index" json:"tooth_number"`
	Condition   string `gorm:"size:30;not null" json:"condition"`
	Notes       string `gorm:"size:500" json:"notes"`
	RecordedOn  string `gorm:"size:10;not null" json:"recorded_on"`

	RecordedBy uuid.UUID `gorm:"type:uuid;not null" json:"recorded_by"`
	Recorder   *User     `gorm:"foreignKey:RecordedBy" json:"recorder,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *OdontogramEntry) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
