package domain

import "time"

// InspectionType distinguishes pickup from return inspections.
type InspectionType string

const (
	InspectionPickup InspectionType = "pickup"
	InspectionReturn InspectionType = "return"
)

// Inspection is a condition snapshot of a car recorded at pickup or return
// time. At most one inspection of each type exists per booking.
type Inspection struct {
	ID                string
	BookingID         string
	Type              InspectionType
	FuelLevel         int // Percentage, 0-100
	Odometer          int
	ExteriorCondition string
	InteriorCondition string
	DamageNotes       string
	Images            []string
	CreatedAt         time.Time
}
