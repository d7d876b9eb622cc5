package appointment

import "github.com/google/uuid"

// SlotDurationMinutes is the fixed grid the availability endpoint walks.
// Bookings need not land on the grid; an off-grid booking simply blocks
// every slot it touches.
const SlotDurationMinutes = 30

type AvailabilityInput struct {
	TenantID       uuid.UUID
	Date           string
	PractitionerID *uuid.UUID
}

// Slot is a derived value, never persisted.
type Slot struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}
