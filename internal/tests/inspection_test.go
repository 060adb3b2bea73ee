package tests

import (
	"context"
	"errors"
	"testing"

	"rental/internal/domain"
	"rental/internal/service"
)

// ──────────────────────────────────────────────
// 6. PICKUP & RETURN INSPECTIONS
// ──────────────────────────────────────────────

func newInspectionService(inspectionRepo *MockInspectionRepository, bookingRepo *MockBookingRepository, locks *MockLockStore) *service.InspectionService {
	return service.NewInspectionService(nil, inspectionRepo, bookingRepo, locks, service.NewNotificationService())
}

func confirmedPaidBooking() *domain.Booking {
	return &domain.Booking{
		ID:            "booking-1",
		CarID:         "car-1",
		UserID:        "user-1",
		TotalPrice:    900000,
		Status:        domain.BookingStatusConfirmed,
		PaymentStatus: domain.PaymentStatusPaid,
	}
}

func TestInspection_Pickup_TransitionsToInUse(t *testing.T) {
	t.Parallel()

	inspectionRepo := NewMockInspectionRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(confirmedPaidBooking())

	svc := newInspectionService(inspectionRepo, bookingRepo, NewMockLockStore())

	booking, err := svc.RecordPickup(context.Background(), service.RecordInspectionRequest{
		BookingID:         "booking-1",
		Location:          "Depot Jakarta",
		FuelLevel:         90,
		Odometer:          15200,
		ExteriorCondition: "good",
		InteriorCondition: "good",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusInUse {
		t.Errorf("expected status %s, got %s", domain.BookingStatusInUse, booking.Status)
	}
	if !booking.PickupCompleted {
		t.Error("expected pickup completed flag")
	}
	if booking.PickupLocation != "Depot Jakarta" {
		t.Errorf("expected pickup location recorded, got %q", booking.PickupLocation)
	}
	if booking.PickupTime.IsZero() {
		t.Error("expected pickup time defaulted to now")
	}

	if got := len(inspectionRepo.InspectionsOfType("booking-1", domain.InspectionPickup)); got != 1 {
		t.Errorf("expected 1 pickup inspection, got %d", got)
	}
}

func TestInspection_PickupWithoutFullPayment_Rejected(t *testing.T) {
	t.Parallel()

	for _, ps := range []domain.PaymentStatus{
		domain.PaymentStatusUnpaid,
		domain.PaymentStatusPendingVerification,
		domain.PaymentStatusPartiallyPaid,
	} {
		ps := ps
		t.Run(string(ps), func(t *testing.T) {
			t.Parallel()

			bookingRepo := NewMockBookingRepository()
			booking := confirmedPaidBooking()
			booking.PaymentStatus = ps
			bookingRepo.AddBooking(booking)

			svc := newInspectionService(NewMockInspectionRepository(), bookingRepo, NewMockLockStore())

			_, err := svc.RecordPickup(context.Background(), service.RecordInspectionRequest{
				BookingID: "booking-1",
				Location:  "Depot Jakarta",
				FuelLevel: 90,
			})
			if !errors.Is(err, service.ErrPaymentRequired) {
				t.Errorf("expected ErrPaymentRequired, got %v", err)
			}
		})
	}
}

func TestInspection_PickupOnPendingBooking_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	booking := confirmedPaidBooking()
	booking.Status = domain.BookingStatusPending
	bookingRepo.AddBooking(booking)

	svc := newInspectionService(NewMockInspectionRepository(), bookingRepo, NewMockLockStore())

	_, err := svc.RecordPickup(context.Background(), service.RecordInspectionRequest{
		BookingID: "booking-1",
		Location:  "Depot Jakarta",
		FuelLevel: 90,
	})
	if !errors.Is(err, service.ErrInvalidStatusTransition) {
		t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestInspection_PickupTwice_Rejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	inspectionRepo := NewMockInspectionRepository()
	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(confirmedPaidBooking())

	svc := newInspectionService(inspectionRepo, bookingRepo, NewMockLockStore())

	req := service.RecordInspectionRequest{
		BookingID: "booking-1",
		Location:  "Depot Jakarta",
		FuelLevel: 90,
	}

	if _, err := svc.RecordPickup(ctx, req); err != nil {
		t.Fatalf("first pickup: %v", err)
	}

	_, err := svc.RecordPickup(ctx, req)
	if !errors.Is(err, service.ErrPickupAlreadyRecorded) {
		t.Errorf("expected ErrPickupAlreadyRecorded, got %v", err)
	}

	// Still exactly one pickup inspection.
	if got := len(inspectionRepo.InspectionsOfType("booking-1", domain.InspectionPickup)); got != 1 {
		t.Errorf("expected 1 pickup inspection, got %d", got)
	}
}

func TestInspection_ReturnBeforePickup_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(confirmedPaidBooking())

	svc := newInspectionService(NewMockInspectionRepository(), bookingRepo, NewMockLockStore())

	_, err := svc.RecordReturn(context.Background(), service.RecordInspectionRequest{
		BookingID: "booking-1",
		Location:  "Depot Jakarta",
		FuelLevel: 50,
	})
	if !errors.Is(err, service.ErrPickupNotRecorded) {
		t.Errorf("expected ErrPickupNotRecorded, got %v", err)
	}
}

func TestInspection_Return_CompletesBooking(t *testing.T) {
	t.Parallel()

	inspectionRepo := NewMockInspectionRepository()
	bookingRepo := NewMockBookingRepository()
	booking := confirmedPaidBooking()
	booking.Status = domain.BookingStatusInUse
	booking.PickupCompleted = true
	bookingRepo.AddBooking(booking)

	svc := newInspectionService(inspectionRepo, bookingRepo, NewMockLockStore())

	done, err := svc.RecordReturn(context.Background(), service.RecordInspectionRequest{
		BookingID:   "booking-1",
		Location:    "Depot Jakarta",
		FuelLevel:   45,
		Odometer:    15750,
		DamageNotes: "minor scuff, left door",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if done.Status != domain.BookingStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCompleted, done.Status)
	}
	if !done.ReturnCompleted {
		t.Error("expected return completed flag")
	}

	if got := len(inspectionRepo.InspectionsOfType("booking-1", domain.InspectionReturn)); got != 1 {
		t.Errorf("expected 1 return inspection, got %d", got)
	}
}

func TestInspection_ReturnTwice_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	booking := confirmedPaidBooking()
	booking.Status = domain.BookingStatusCompleted
	booking.PickupCompleted = true
	booking.ReturnCompleted = true
	bookingRepo.AddBooking(booking)

	svc := newInspectionService(NewMockInspectionRepository(), bookingRepo, NewMockLockStore())

	_, err := svc.RecordReturn(context.Background(), service.RecordInspectionRequest{
		BookingID: "booking-1",
		Location:  "Depot Jakarta",
		FuelLevel: 45,
	})
	if !errors.Is(err, service.ErrReturnAlreadyRecorded) {
		t.Errorf("expected ErrReturnAlreadyRecorded, got %v", err)
	}
}

func TestInspection_FuelLevelOutOfRange_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(confirmedPaidBooking())

	svc := newInspectionService(NewMockInspectionRepository(), bookingRepo, NewMockLockStore())

	for _, level := range []int{-1, 101} {
		_, err := svc.RecordPickup(context.Background(), service.RecordInspectionRequest{
			BookingID: "booking-1",
			Location:  "Depot Jakarta",
			FuelLevel: level,
		})
		if !errors.Is(err, service.ErrInvalidFuelLevel) {
			t.Errorf("fuel level %d: expected ErrInvalidFuelLevel, got %v", level, err)
		}
	}
}

func TestInspection_MissingLocation_Rejected(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(confirmedPaidBooking())

	svc := newInspectionService(NewMockInspectionRepository(), bookingRepo, NewMockLockStore())

	_, err := svc.RecordPickup(context.Background(), service.RecordInspectionRequest{
		BookingID: "booking-1",
		FuelLevel: 90,
	})
	if !errors.Is(err, service.ErrInvalidInspectionLocation) {
		t.Errorf("expected ErrInvalidInspectionLocation, got %v", err)
	}
}

func TestInspection_FailedInspectionInsert_LeavesBookingUnchanged(t *testing.T) {
	t.Parallel()

	inspectionRepo := NewMockInspectionRepository()
	inspectionRepo.CreateError = ErrMockDBConstraint

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(confirmedPaidBooking())

	svc := newInspectionService(inspectionRepo, bookingRepo, NewMockLockStore())

	_, err := svc.RecordPickup(context.Background(), service.RecordInspectionRequest{
		BookingID: "booking-1",
		Location:  "Depot Jakarta",
		FuelLevel: 90,
	})
	if err == nil {
		t.Fatal("expected error from failed inspection insert")
	}

	// The stored booking must not have transitioned.
	if got := bookingRepo.GetBooking("booking-1").Status; got != domain.BookingStatusConfirmed {
		t.Errorf("expected status unchanged, got %s", got)
	}
}
