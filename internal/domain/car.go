package domain

import "time"

// Transmission represents the gearbox type of a car.
type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

// Car represents a vehicle in the rental catalog.
type Car struct {
	ID           string
	Name         string
	Brand        string
	Year         int
	PricePerDay  int64 // Smallest currency unit per rental day
	Transmission Transmission
	Capacity     int
	Category     string // MPV, SUV, Sedan, Hatchback, ...
	Description  string
	Features     []string
	ImageURL     string
	CreatedAt    time.Time
}
