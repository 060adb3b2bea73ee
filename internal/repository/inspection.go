package repository

import (
	"context"

	"rental/internal/domain"
)

// InspectionRepository defines the persistence operations for inspections.
type InspectionRepository interface {
	// Create persists a new inspection.
	Create(ctx context.Context, inspection *domain.Inspection) error

	// GetByBookingID retrieves all inspections for a booking, newest first.
	GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Inspection, error)
}
