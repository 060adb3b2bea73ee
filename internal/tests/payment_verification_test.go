package tests

import (
	"context"
	"errors"
	"testing"

	"rental/internal/domain"
	"rental/internal/service"
)

// ──────────────────────────────────────────────
// 4. PAYMENT SUBMISSION
// ──────────────────────────────────────────────

func newPaymentService(paymentRepo *MockPaymentRepository, bookingRepo *MockBookingRepository, locks *MockLockStore) *service.PaymentService {
	return service.NewPaymentService(nil, paymentRepo, bookingRepo, locks, service.NewNotificationService())
}

func pendingBooking(total int64) *domain.Booking {
	return &domain.Booking{
		ID:            "booking-1",
		CarID:         "car-1",
		UserID:        "user-1",
		TotalPrice:    total,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
}

func TestPayment_Submit_RecordsPendingVerification(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	payment, err := svc.SubmitPayment(context.Background(), service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    400000,
		Method:    "bank_transfer",
		ProofURL:  "/uploads/transfer-slip.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.VerificationPending {
		t.Errorf("expected status %s, got %s", domain.VerificationPending, payment.Status)
	}
	if payment.InvoiceNumber == "" {
		t.Error("expected invoice number to be assigned")
	}

	// The booking aggregate flips in the same operation.
	if got := bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPendingVerification {
		t.Errorf("expected pending_verification, got %s", got)
	}
}

func TestPayment_InvalidAmount_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(NewMockPaymentRepository(), bookingRepo, NewMockLockStore())

	testCases := []struct {
		name   string
		amount int64
	}{
		{"zero amount", 0},
		{"negative amount", -100000},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.SubmitPayment(context.Background(), service.SubmitPaymentRequest{
				BookingID: "booking-1",
				Amount:    tc.amount,
				Method:    "cash",
			})
			if !errors.Is(err, service.ErrInvalidPaymentAmount) {
				t.Errorf("expected ErrInvalidPaymentAmount, got %v", err)
			}
		})
	}
}

func TestPayment_UnknownMethod_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(NewMockPaymentRepository(), bookingRepo, NewMockLockStore())

	for _, method := range []string{"", "crypto", "CASH"} {
		_, err := svc.SubmitPayment(context.Background(), service.SubmitPaymentRequest{
			BookingID: "booking-1",
			Amount:    100000,
			Method:    method,
		})
		if !errors.Is(err, service.ErrInvalidPaymentMethod) {
			t.Errorf("method %q: expected ErrInvalidPaymentMethod, got %v", method, err)
		}
	}
}

func TestPayment_SubmitAgainstNonPayableBooking_Rejected(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.BookingStatus{
		domain.BookingStatusInUse,
		domain.BookingStatusCompleted,
		domain.BookingStatusCancelled,
	} {
		status := status
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()

			bookingRepo := NewMockBookingRepository()
			booking := pendingBooking(900000)
			booking.Status = status
			bookingRepo.AddBooking(booking)

			svc := newPaymentService(NewMockPaymentRepository(), bookingRepo, NewMockLockStore())

			_, err := svc.SubmitPayment(context.Background(), service.SubmitPaymentRequest{
				BookingID: "booking-1",
				Amount:    100000,
				Method:    "cash",
			})
			if !errors.Is(err, service.ErrBookingNotPayable) {
				t.Errorf("expected ErrBookingNotPayable, got %v", err)
			}
		})
	}
}

func TestPayment_AmountAboveOutstandingBalance_Rejected(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	// 400000 already verified.
	paymentRepo.AddPayment(&domain.Payment{
		ID:        "payment-1",
		BookingID: "booking-1",
		Amount:    400000,
		Status:    domain.VerificationCompleted,
	})

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	_, err := svc.SubmitPayment(context.Background(), service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    600000, // Outstanding is only 500000
		Method:    "bank_transfer",
	})
	if !errors.Is(err, service.ErrOverpayment) {
		t.Errorf("expected ErrOverpayment, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 5. PAYMENT VERIFICATION
// ──────────────────────────────────────────────

func TestPayment_VerifyApprove_DerivesAggregateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	first, err := svc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    400000,
		Method:    "bank_transfer",
	})
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}

	// Approving a partial payment leaves the booking partially paid.
	if _, err := svc.VerifyPayment(ctx, first.ID, true); err != nil {
		t.Fatalf("verify first: %v", err)
	}
	if got := bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPartiallyPaid {
		t.Errorf("expected partially_paid, got %s", got)
	}

	second, err := svc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    500000,
		Method:    "cash",
	})
	if err != nil {
		t.Fatalf("submit second: %v", err)
	}

	// Covering the full total flips the booking to paid.
	if _, err := svc.VerifyPayment(ctx, second.ID, true); err != nil {
		t.Fatalf("verify second: %v", err)
	}
	if got := bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPaid {
		t.Errorf("expected paid, got %s", got)
	}
}

func TestPayment_VerifyTwice_Rejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	payment, err := svc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    400000,
		Method:    "bank_transfer",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := svc.VerifyPayment(ctx, payment.ID, true); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	// A second verification must not double-count the amount.
	_, err = svc.VerifyPayment(ctx, payment.ID, true)
	if !errors.Is(err, service.ErrPaymentAlreadyVerified) {
		t.Errorf("expected ErrPaymentAlreadyVerified, got %v", err)
	}

	sum, err := paymentRepo.SumCompletedByBookingID(ctx, "booking-1")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 400000 {
		t.Errorf("expected verified sum 400000, got %d", sum)
	}
	if got := bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPartiallyPaid {
		t.Errorf("expected partially_paid, got %s", got)
	}
}

func TestPayment_VerifyRacingAnotherVerifier_Rejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	payment, err := svc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    400000,
		Method:    "bank_transfer",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Another admin rejects the payment between this caller's initial
	// read and its lock acquisition. The re-read under the lock must
	// catch the settled status.
	settled := false
	paymentRepo.AfterGetByID = func(id string) {
		if !settled {
			settled = true
			paymentRepo.SetPaymentStatus(payment.ID, domain.VerificationRejected)
		}
	}

	_, err = svc.VerifyPayment(ctx, payment.ID, true)
	if !errors.Is(err, service.ErrPaymentAlreadyVerified) {
		t.Fatalf("expected ErrPaymentAlreadyVerified, got %v", err)
	}

	// The rejection stands and the aggregate never moves to paid.
	if got := paymentRepo.GetPayment(payment.ID).Status; got != domain.VerificationRejected {
		t.Errorf("expected status %s, got %s", domain.VerificationRejected, got)
	}
	if got := bookingRepo.GetBooking("booking-1").PaymentStatus; got != domain.PaymentStatusPendingVerification {
		t.Errorf("expected pending_verification, got %s", got)
	}
}

func TestPayment_VerifySettledBetweenReadAndWrite_Rejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	payment, err := svc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    400000,
		Method:    "bank_transfer",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The payment settles after the locked re-read, as happens when a
	// stale verifier outlives its lock. The conditional status update
	// must refuse to settle it twice.
	calls := 0
	paymentRepo.AfterGetByID = func(id string) {
		calls++
		if calls == 2 {
			paymentRepo.SetPaymentStatus(payment.ID, domain.VerificationCompleted)
		}
	}

	_, err = svc.VerifyPayment(ctx, payment.ID, false)
	if !errors.Is(err, service.ErrPaymentAlreadyVerified) {
		t.Fatalf("expected ErrPaymentAlreadyVerified, got %v", err)
	}

	if got := paymentRepo.GetPayment(payment.ID).Status; got != domain.VerificationCompleted {
		t.Errorf("expected status %s, got %s", domain.VerificationCompleted, got)
	}
}

func TestPayment_Reject_LeavesAggregateUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	paymentRepo := NewMockPaymentRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	svc := newPaymentService(paymentRepo, bookingRepo, NewMockLockStore())

	payment, err := svc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    400000,
		Method:    "bank_transfer",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rejected, err := svc.VerifyPayment(ctx, payment.ID, false)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}

	if rejected.Status != domain.VerificationRejected {
		t.Errorf("expected status %s, got %s", domain.VerificationRejected, rejected.Status)
	}

	// A rejected payment contributes nothing to the verified sum.
	sum, _ := paymentRepo.SumCompletedByBookingID(ctx, "booking-1")
	if sum != 0 {
		t.Errorf("expected verified sum 0, got %d", sum)
	}
}

func TestPayment_GetPaymentsForUnknownBooking_NotFound(t *testing.T) {
	t.Parallel()

	svc := newPaymentService(NewMockPaymentRepository(), NewMockBookingRepository(), NewMockLockStore())

	_, err := svc.GetPayments(context.Background(), "missing-booking")
	if err == nil {
		t.Error("expected error for unknown booking")
	}
}

func TestPayment_SubmitWhileBookingLocked_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(pendingBooking(900000))

	locks := NewMockLockStore()
	locks.ForceAcquireFailure = true

	svc := newPaymentService(NewMockPaymentRepository(), bookingRepo, locks)

	_, err := svc.SubmitPayment(context.Background(), service.SubmitPaymentRequest{
		BookingID: "booking-1",
		Amount:    100000,
		Method:    "cash",
	})
	if !errors.Is(err, service.ErrBookingLocked) {
		t.Errorf("expected ErrBookingLocked, got %v", err)
	}
}
