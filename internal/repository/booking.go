package repository

import (
	"context"
	"time"

	"rental/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves all bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetByUserID retrieves a user's bookings, newest first.
	GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// HasOverlapping reports whether the car has a pending, confirmed or
	// in-use booking whose date range overlaps [start, end).
	HasOverlapping(ctx context.Context, carID string, start, end time.Time) (bool, error)

	// CountActiveByCarID returns the number of non-terminal bookings
	// referencing the car.
	CountActiveByCarID(ctx context.Context, carID string) (int, error)
}
