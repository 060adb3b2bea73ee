package repository

import (
	"context"

	"rental/internal/domain"
)

// PaymentRepository defines the persistence operations for the payment ledger.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByBookingID retrieves all payments for a booking, newest first.
	GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error)

	// UpdateStatus moves a payment from one verification status to
	// another. The update is a compare-and-set: ErrNotFound is returned
	// when no payment matches both the id and the expected current
	// status, so a settled payment can never be settled again.
	UpdateStatus(ctx context.Context, id string, from, to domain.VerificationStatus) error

	// SumCompletedByBookingID returns the total amount of verified
	// payments for a booking.
	SumCompletedByBookingID(ctx context.Context, bookingID string) (int64, error)
}
