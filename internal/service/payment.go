package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
	"rental/internal/repository/postgres"
)

// PaymentService handles the payment ledger and the booking's aggregate
// payment status.
type PaymentService struct {
	db          *sql.DB
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	locks       redis.LockStoreInterface
	notifier    *NotificationService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	db *sql.DB,
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	locks redis.LockStoreInterface,
	notifier *NotificationService,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		locks:       locks,
		notifier:    notifier,
	}
}

// SubmitPaymentRequest contains the parameters for submitting a payment.
type SubmitPaymentRequest struct {
	BookingID string
	Amount    int64
	Method    string
	ProofURL  string
	Notes     string
}

// SubmitPayment records a payment attempt against a booking. The payment is
// inserted pending verification and the booking's aggregate flips to
// pending_verification in the same transaction.
func (s *PaymentService) SubmitPayment(ctx context.Context, req SubmitPaymentRequest) (*domain.Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}

	method, err := ValidatePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}

	var payment *domain.Payment
	err = withBookingLock(ctx, s.locks, req.BookingID, func() error {
		booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}

		if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
			return ErrBookingNotPayable
		}

		paid, err := s.paymentRepo.SumCompletedByBookingID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		if req.Amount > booking.TotalPrice-paid {
			return ErrOverpayment
		}

		payment = &domain.Payment{
			ID:            uuid.New().String(),
			BookingID:     req.BookingID,
			Amount:        req.Amount,
			Method:        method,
			ProofURL:      req.ProofURL,
			Status:        domain.VerificationPending,
			InvoiceNumber: NewInvoiceNumber("PAY"),
			Notes:         req.Notes,
			CreatedAt:     time.Now(),
		}

		return s.inTx(ctx, func(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository) error {
			if err := paymentRepo.Create(ctx, payment); err != nil {
				return err
			}

			booking.PaymentStatus = domain.PaymentStatusPendingVerification
			return bookingRepo.Update(ctx, booking)
		})
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.NotifyPaymentSubmitted(ctx, payment)

	return payment, nil
}

// VerifyPayment approves or rejects a pending payment. On approval the sum
// of verified payments is recomputed in the same transaction and the
// booking's aggregate payment status is derived from it; re-running the
// verification of an already-verified payment is rejected, so a payment can
// never count twice.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID string, approve bool) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.VerificationPending {
		return nil, ErrPaymentAlreadyVerified
	}

	var booking *domain.Booking
	err = withBookingLock(ctx, s.locks, payment.BookingID, func() error {
		// Re-read under the lock; a concurrent verifier may have
		// settled the payment after the check above.
		var err error
		payment, err = s.paymentRepo.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != domain.VerificationPending {
			return ErrPaymentAlreadyVerified
		}

		booking, err = s.bookingRepo.GetByID(ctx, payment.BookingID)
		if err != nil {
			return err
		}

		status := domain.VerificationRejected
		if approve {
			status = domain.VerificationCompleted
		}

		return s.inTx(ctx, func(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository) error {
			// Compare-and-set so a payment settled elsewhere can
			// never be settled twice.
			if err := paymentRepo.UpdateStatus(ctx, payment.ID, domain.VerificationPending, status); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrPaymentAlreadyVerified
				}
				return err
			}
			payment.Status = status

			if !approve {
				// Rejection leaves the aggregate untouched.
				return nil
			}

			paid, err := paymentRepo.SumCompletedByBookingID(ctx, payment.BookingID)
			if err != nil {
				return err
			}

			if paid >= booking.TotalPrice {
				booking.PaymentStatus = domain.PaymentStatusPaid
			} else {
				booking.PaymentStatus = domain.PaymentStatusPartiallyPaid
			}

			return bookingRepo.Update(ctx, booking)
		})
	})
	if err != nil {
		return nil, err
	}

	if approve {
		_ = s.notifier.NotifyPaymentVerified(ctx, payment, booking)
	} else {
		_ = s.notifier.NotifyPaymentRejected(ctx, payment, booking)
	}

	return payment, nil
}

// GetPayments retrieves the ledger for a booking, newest first.
func (s *PaymentService) GetPayments(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	// Confirm the booking exists so a missing id reads as 404, not an
	// empty ledger.
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	return s.paymentRepo.GetByBookingID(ctx, bookingID)
}

// inTx runs fn with transaction-scoped repositories, rolling back on error.
// Without a database handle the injected repositories are used directly.
func (s *PaymentService) inTx(ctx context.Context, fn func(repository.PaymentRepository, repository.BookingRepository) error) error {
	if s.db == nil {
		return fn(s.paymentRepo, s.bookingRepo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(postgres.NewPaymentRepositoryWithTx(tx), postgres.NewBookingRepositoryWithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ValidatePaymentMethod validates a payment method string. Unrecognized
// values, including empty, are rejected.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodBankTransfer, domain.PaymentMethodCash:
		return domain.PaymentMethod(method), nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
