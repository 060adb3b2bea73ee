package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusInUse     BookingStatus = "in_use"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the aggregate payment state of a booking,
// derived from its verified payments.
type PaymentStatus string

const (
	PaymentStatusUnpaid              PaymentStatus = "unpaid"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusPartiallyPaid       PaymentStatus = "partially_paid"
	PaymentStatusPaid                PaymentStatus = "paid"
)

// allowedTransitions defines the booking status graph. Terminal states map
// to an empty set.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusInUse, BookingStatusCancelled},
	BookingStatusInUse:     {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to BookingStatus) bool {
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking represents a reservation of a car for a date range.
type Booking struct {
	ID            string
	CarID         string
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	TotalPrice    int64
	Status        BookingStatus
	PaymentStatus PaymentStatus
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
	InvoiceNumber string

	PickupLocation  string
	PickupTime      time.Time
	PickupCompleted bool
	ReturnLocation  string
	ReturnTime      time.Time
	ReturnCompleted bool

	CreatedAt time.Time
}

// RentalDays returns the number of chargeable rental days for the booking's
// date range. Dates are day-granular; callers must validate
// EndDate > StartDate first.
func (b *Booking) RentalDays() int {
	return RentalDays(b.StartDate, b.EndDate)
}

// RentalDays returns the number of chargeable days between two dates.
func RentalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
