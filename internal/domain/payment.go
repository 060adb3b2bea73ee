package domain

import "time"

// PaymentMethod represents how a payment was made.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

// VerificationStatus represents the admin verification state of a payment.
type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationCompleted VerificationStatus = "completed"
	VerificationRejected  VerificationStatus = "rejected"
)

// Payment represents a single payment attempt against a booking. Payments
// are append-only: once verified or rejected they are never mutated again.
type Payment struct {
	ID            string
	BookingID     string
	Amount        int64
	Method        PaymentMethod
	ProofURL      string // Optional reference to an uploaded proof of payment
	Status        VerificationStatus
	InvoiceNumber string
	Notes         string
	CreatedAt     time.Time
}
