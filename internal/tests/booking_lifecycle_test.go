package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental/internal/domain"
	"rental/internal/service"
)

// ──────────────────────────────────────────────
// 1. BOOKING CREATION
// ──────────────────────────────────────────────

func newBookingService(
	carRepo *MockCarRepository,
	bookingRepo *MockBookingRepository,
	paymentRepo *MockPaymentRepository,
	inspectionRepo *MockInspectionRepository,
	locks *MockLockStore,
) *service.BookingService {
	return service.NewBookingService(nil, bookingRepo, carRepo, paymentRepo, inspectionRepo, locks, service.NewNotificationService())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBooking_TotalPriceComputedFromCarRate(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	bookingRepo := NewMockBookingRepository()

	carRepo.AddCar(&domain.Car{
		ID:          "car-1",
		Name:        "Avanza",
		Brand:       "Toyota",
		PricePerDay: 300000,
	})

	svc := newBookingService(carRepo, bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	booking, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		CarID:         "car-1",
		UserID:        "user-1",
		StartDate:     date(2025, 3, 10),
		EndDate:       date(2025, 3, 13),
		CustomerName:  "Budi",
		CustomerPhone: "+62812000111",
		CustomerEmail: "budi@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 days at 300000/day.
	if booking.TotalPrice != 900000 {
		t.Errorf("expected total price 900000, got %d", booking.TotalPrice)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status %s, got %s", domain.BookingStatusPending, booking.Status)
	}
	if booking.PaymentStatus != domain.PaymentStatusUnpaid {
		t.Errorf("expected payment status %s, got %s", domain.PaymentStatusUnpaid, booking.PaymentStatus)
	}
	if booking.InvoiceNumber == "" {
		t.Error("expected invoice number to be assigned")
	}
}

func TestBooking_InvalidDateRange_Rejected(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	carRepo.AddCar(&domain.Car{ID: "car-1", Name: "Avanza", Brand: "Toyota", PricePerDay: 300000})

	svc := newBookingService(carRepo, NewMockBookingRepository(), NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", date(2025, 3, 13), date(2025, 3, 10)},
		{"end equals start", date(2025, 3, 10), date(2025, 3, 10)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
				CarID:         "car-1",
				UserID:        "user-1",
				StartDate:     tc.start,
				EndDate:       tc.end,
				CustomerName:  "Budi",
				CustomerPhone: "+62812000111",
				CustomerEmail: "budi@example.com",
			})
			if !errors.Is(err, service.ErrInvalidDateRange) {
				t.Errorf("expected ErrInvalidDateRange, got %v", err)
			}
		})
	}
}

func TestBooking_MissingContactInfo_Rejected(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	carRepo.AddCar(&domain.Car{ID: "car-1", Name: "Avanza", Brand: "Toyota", PricePerDay: 300000})

	svc := newBookingService(carRepo, NewMockBookingRepository(), NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		CarID:         "car-1",
		UserID:        "user-1",
		StartDate:     date(2025, 3, 10),
		EndDate:       date(2025, 3, 12),
		CustomerName:  "Budi",
		CustomerPhone: "", // Missing
		CustomerEmail: "budi@example.com",
	})
	if !errors.Is(err, service.ErrInvalidCustomerInfo) {
		t.Errorf("expected ErrInvalidCustomerInfo, got %v", err)
	}
}

func TestBooking_OverlappingDates_Rejected(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	bookingRepo := NewMockBookingRepository()

	carRepo.AddCar(&domain.Car{ID: "car-1", Name: "Avanza", Brand: "Toyota", PricePerDay: 300000})

	// Existing confirmed booking on March 10-13.
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		CarID:     "car-1",
		UserID:    "user-1",
		StartDate: date(2025, 3, 10),
		EndDate:   date(2025, 3, 13),
		Status:    domain.BookingStatusConfirmed,
	})

	svc := newBookingService(carRepo, bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	// Overlapping request on March 12-15.
	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		CarID:         "car-1",
		UserID:        "user-2",
		StartDate:     date(2025, 3, 12),
		EndDate:       date(2025, 3, 15),
		CustomerName:  "Sari",
		CustomerPhone: "+62812000222",
		CustomerEmail: "sari@example.com",
	})
	if !errors.Is(err, service.ErrCarUnavailable) {
		t.Errorf("expected ErrCarUnavailable, got %v", err)
	}

	if bookingRepo.CountBookings() != 1 {
		t.Errorf("expected 1 booking, got %d", bookingRepo.CountBookings())
	}
}

func TestBooking_BackToBackDates_Allowed(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	bookingRepo := NewMockBookingRepository()

	carRepo.AddCar(&domain.Car{ID: "car-1", Name: "Avanza", Brand: "Toyota", PricePerDay: 300000})

	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		CarID:     "car-1",
		StartDate: date(2025, 3, 10),
		EndDate:   date(2025, 3, 13),
		Status:    domain.BookingStatusConfirmed,
	})

	svc := newBookingService(carRepo, bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	// A new rental starting the day the previous one ends does not overlap.
	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		CarID:         "car-1",
		UserID:        "user-2",
		StartDate:     date(2025, 3, 13),
		EndDate:       date(2025, 3, 15),
		CustomerName:  "Sari",
		CustomerPhone: "+62812000222",
		CustomerEmail: "sari@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBooking_CancelledBookingDoesNotBlockDates(t *testing.T) {
	t.Parallel()

	carRepo := NewMockCarRepository()
	bookingRepo := NewMockBookingRepository()

	carRepo.AddCar(&domain.Car{ID: "car-1", Name: "Avanza", Brand: "Toyota", PricePerDay: 300000})

	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		CarID:     "car-1",
		StartDate: date(2025, 3, 10),
		EndDate:   date(2025, 3, 13),
		Status:    domain.BookingStatusCancelled,
	})

	svc := newBookingService(carRepo, bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		CarID:         "car-1",
		UserID:        "user-2",
		StartDate:     date(2025, 3, 11),
		EndDate:       date(2025, 3, 12),
		CustomerName:  "Sari",
		CustomerPhone: "+62812000222",
		CustomerEmail: "sari@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. STATUS TRANSITIONS
// ──────────────────────────────────────────────

func TestBooking_ConfirmPendingBooking(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:     "booking-1",
		Status: domain.BookingStatusPending,
	})

	svc := newBookingService(NewMockCarRepository(), bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	booking, err := svc.ConfirmBooking(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected status %s, got %s", domain.BookingStatusConfirmed, booking.Status)
	}
}

func TestBooking_ConfirmNonPendingBooking_Rejected(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.BookingStatus{
		domain.BookingStatusConfirmed,
		domain.BookingStatusInUse,
		domain.BookingStatusCompleted,
		domain.BookingStatusCancelled,
	} {
		status := status
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()

			bookingRepo := NewMockBookingRepository()
			bookingRepo.AddBooking(&domain.Booking{
				ID:     "booking-1",
				Status: status,
			})

			svc := newBookingService(NewMockCarRepository(), bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

			_, err := svc.ConfirmBooking(context.Background(), "booking-1")
			if !errors.Is(err, service.ErrInvalidStatusTransition) {
				t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
			}
		})
	}
}

func TestBooking_CancelTwice_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:     "booking-1",
		Status: domain.BookingStatusPending,
	})

	svc := newBookingService(NewMockCarRepository(), bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

	if _, err := svc.CancelBooking(context.Background(), "booking-1"); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	_, err := svc.CancelBooking(context.Background(), "booking-1")
	if !errors.Is(err, service.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled, got %v", err)
	}
}

func TestBooking_TerminalStatesAcceptNoTransitions(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.BookingStatus{
		domain.BookingStatusCompleted,
		domain.BookingStatusCancelled,
	} {
		status := status
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()

			bookingRepo := NewMockBookingRepository()
			bookingRepo.AddBooking(&domain.Booking{
				ID:     "booking-1",
				Status: status,
			})

			svc := newBookingService(NewMockCarRepository(), bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), NewMockLockStore())

			if _, err := svc.ConfirmBooking(context.Background(), "booking-1"); err == nil {
				t.Error("expected confirm of terminal booking to fail")
			}

			// The stored booking must still be in its terminal state.
			if got := bookingRepo.GetBooking("booking-1").Status; got != status {
				t.Errorf("terminal status changed: expected %s, got %s", status, got)
			}
		})
	}
}

func TestBooking_TransitionWhileLocked_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:     "booking-1",
		Status: domain.BookingStatusPending,
	})

	locks := NewMockLockStore()
	locks.ForceAcquireFailure = true

	svc := newBookingService(NewMockCarRepository(), bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), locks)

	_, err := svc.ConfirmBooking(context.Background(), "booking-1")
	if !errors.Is(err, service.ErrBookingLocked) {
		t.Errorf("expected ErrBookingLocked, got %v", err)
	}

	// The booking must be untouched.
	if got := bookingRepo.GetBooking("booking-1").Status; got != domain.BookingStatusPending {
		t.Errorf("expected status unchanged, got %s", got)
	}
}

func TestBooking_LockReleasedAfterTransition(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:     "booking-1",
		Status: domain.BookingStatusPending,
	})

	locks := NewMockLockStore()
	svc := newBookingService(NewMockCarRepository(), bookingRepo, NewMockPaymentRepository(), NewMockInspectionRepository(), locks)

	if _, err := svc.ConfirmBooking(context.Background(), "booking-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if locks.IsLocked("booking-1") {
		t.Error("expected lock to be released after transition")
	}
	if locks.ReleaseCallCount != 1 {
		t.Errorf("expected 1 release call, got %d", locks.ReleaseCallCount)
	}
}

// ──────────────────────────────────────────────
// 3. FULL RENTAL LIFECYCLE
// ──────────────────────────────────────────────

func TestBooking_FullLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	carRepo := NewMockCarRepository()
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	inspectionRepo := NewMockInspectionRepository()
	locks := NewMockLockStore()
	notifier := service.NewNotificationService()

	carRepo.AddCar(&domain.Car{
		ID:          "car-1",
		Name:        "Innova Zenix",
		Brand:       "Toyota",
		PricePerDay: 300000,
	})

	bookingSvc := newBookingService(carRepo, bookingRepo, paymentRepo, inspectionRepo, locks)
	paymentSvc := service.NewPaymentService(nil, paymentRepo, bookingRepo, locks, notifier)
	inspectionSvc := service.NewInspectionService(nil, inspectionRepo, bookingRepo, locks, notifier)

	// Customer books 3 days.
	booking, err := bookingSvc.CreateBooking(ctx, service.CreateBookingRequest{
		CarID:         "car-1",
		UserID:        "user-1",
		StartDate:     date(2025, 4, 1),
		EndDate:       date(2025, 4, 4),
		CustomerName:  "Budi",
		CustomerPhone: "+62812000111",
		CustomerEmail: "budi@example.com",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if booking.TotalPrice != 900000 {
		t.Fatalf("expected total 900000, got %d", booking.TotalPrice)
	}

	// Customer pays a deposit.
	deposit, err := paymentSvc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: booking.ID,
		Amount:    400000,
		Method:    "bank_transfer",
	})
	if err != nil {
		t.Fatalf("submit deposit: %v", err)
	}
	if got := bookingRepo.GetBooking(booking.ID).PaymentStatus; got != domain.PaymentStatusPendingVerification {
		t.Fatalf("expected pending_verification, got %s", got)
	}

	// Admin verifies the deposit; booking is only partially paid.
	if _, err := paymentSvc.VerifyPayment(ctx, deposit.ID, true); err != nil {
		t.Fatalf("verify deposit: %v", err)
	}
	if got := bookingRepo.GetBooking(booking.ID).PaymentStatus; got != domain.PaymentStatusPartiallyPaid {
		t.Fatalf("expected partially_paid, got %s", got)
	}

	// Admin confirms the booking.
	if _, err := bookingSvc.ConfirmBooking(ctx, booking.ID); err != nil {
		t.Fatalf("confirm booking: %v", err)
	}

	// Pickup is refused until fully paid.
	_, err = inspectionSvc.RecordPickup(ctx, service.RecordInspectionRequest{
		BookingID: booking.ID,
		Location:  "Depot Bandung",
		FuelLevel: 95,
		Odometer:  42100,
	})
	if !errors.Is(err, service.ErrPaymentRequired) {
		t.Fatalf("expected ErrPaymentRequired before full payment, got %v", err)
	}

	// Customer pays the remainder; admin verifies.
	remainder, err := paymentSvc.SubmitPayment(ctx, service.SubmitPaymentRequest{
		BookingID: booking.ID,
		Amount:    500000,
		Method:    "cash",
	})
	if err != nil {
		t.Fatalf("submit remainder: %v", err)
	}
	if _, err := paymentSvc.VerifyPayment(ctx, remainder.ID, true); err != nil {
		t.Fatalf("verify remainder: %v", err)
	}
	if got := bookingRepo.GetBooking(booking.ID).PaymentStatus; got != domain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", got)
	}

	// Pickup inspection moves the booking to in_use.
	inUse, err := inspectionSvc.RecordPickup(ctx, service.RecordInspectionRequest{
		BookingID: booking.ID,
		Location:  "Depot Bandung",
		FuelLevel: 95,
		Odometer:  42100,
	})
	if err != nil {
		t.Fatalf("record pickup: %v", err)
	}
	if inUse.Status != domain.BookingStatusInUse {
		t.Fatalf("expected in_use, got %s", inUse.Status)
	}
	if !inUse.PickupCompleted {
		t.Fatal("expected pickup completed flag")
	}

	// Return inspection completes the rental.
	done, err := inspectionSvc.RecordReturn(ctx, service.RecordInspectionRequest{
		BookingID:   booking.ID,
		Location:    "Depot Bandung",
		FuelLevel:   40,
		Odometer:    42650,
		DamageNotes: "scratch on rear bumper",
	})
	if err != nil {
		t.Fatalf("record return: %v", err)
	}
	if done.Status != domain.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if !done.ReturnCompleted {
		t.Fatal("expected return completed flag")
	}

	// One pickup and one return inspection on record.
	if got := len(inspectionRepo.InspectionsOfType(booking.ID, domain.InspectionPickup)); got != 1 {
		t.Errorf("expected 1 pickup inspection, got %d", got)
	}
	if got := len(inspectionRepo.InspectionsOfType(booking.ID, domain.InspectionReturn)); got != 1 {
		t.Errorf("expected 1 return inspection, got %d", got)
	}

	// The completed booking accepts no further transitions.
	if _, err := bookingSvc.CancelBooking(ctx, booking.ID); err == nil {
		t.Error("expected cancel of completed booking to fail")
	}
}
