package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
)

// bookingLockTTL bounds how long a transition may hold a booking's lock.
const bookingLockTTL = 10 * time.Second

// BookingService handles the booking lifecycle.
type BookingService struct {
	db             *sql.DB
	bookingRepo    repository.BookingRepository
	carRepo        repository.CarRepository
	paymentRepo    repository.PaymentRepository
	inspectionRepo repository.InspectionRepository
	locks          redis.LockStoreInterface
	notifier       *NotificationService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	paymentRepo repository.PaymentRepository,
	inspectionRepo repository.InspectionRepository,
	locks redis.LockStoreInterface,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		db:             db,
		bookingRepo:    bookingRepo,
		carRepo:        carRepo,
		paymentRepo:    paymentRepo,
		inspectionRepo: inspectionRepo,
		locks:          locks,
		notifier:       notifier,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	CarID         string
	UserID        string
	StartDate     time.Time
	EndDate       time.Time
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
}

// CreateBooking creates a booking in pending/unpaid state. The total price
// is computed here from the car's daily price; client-supplied totals are
// never trusted.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.CarID == "" {
		return nil, ErrInvalidCarID
	}
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.CustomerName == "" || req.CustomerPhone == "" || req.CustomerEmail == "" {
		return nil, ErrInvalidCustomerInfo
	}

	car, err := s.carRepo.GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.bookingRepo.HasOverlapping(ctx, req.CarID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, ErrCarUnavailable
	}

	days := domain.RentalDays(req.StartDate, req.EndDate)

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		CarID:         req.CarID,
		UserID:        req.UserID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		TotalPrice:    int64(days) * car.PricePerDay,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
		InvoiceNumber: NewInvoiceNumber("INV"),
		CreatedAt:     time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	_ = s.notifier.NotifyBookingCreated(ctx, booking)

	return booking, nil
}

// BookingDetail bundles a booking with its related records.
type BookingDetail struct {
	Booking     *domain.Booking
	Car         *domain.Car
	Payments    []*domain.Payment
	Inspections []*domain.Inspection
}

// GetBooking retrieves a booking with its car, payments and inspections.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*BookingDetail, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, booking.CarID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	inspections, err := s.inspectionRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return &BookingDetail{
		Booking:     booking,
		Car:         car,
		Payments:    payments,
		Inspections: inspections,
	}, nil
}

// ListBookings retrieves all bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}

// ListUserBookings retrieves one user's bookings, newest first.
func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.bookingRepo.GetByUserID(ctx, userID)
}

// ConfirmBooking transitions a pending booking to confirmed.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := withBookingLock(ctx, s.locks, bookingID, func() error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		if !domain.CanTransition(booking.Status, domain.BookingStatusConfirmed) {
			return ErrInvalidStatusTransition
		}

		booking.Status = domain.BookingStatusConfirmed
		return s.bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.NotifyBookingConfirmed(ctx, booking)

	return booking, nil
}

// CancelBooking transitions a pending or confirmed booking to cancelled.
// Payments already recorded against the booking are left untouched.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var booking *domain.Booking
	err := withBookingLock(ctx, s.locks, bookingID, func() error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		if booking.Status == domain.BookingStatusCancelled {
			return ErrBookingAlreadyCancelled
		}
		if !domain.CanTransition(booking.Status, domain.BookingStatusCancelled) {
			return ErrInvalidStatusTransition
		}

		booking.Status = domain.BookingStatusCancelled
		return s.bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.NotifyBookingCancelled(ctx, booking)

	return booking, nil
}

// withBookingLock runs fn while holding the booking's transition lock.
func withBookingLock(ctx context.Context, locks redis.LockStoreInterface, bookingID string, fn func() error) error {
	if bookingID == "" {
		return ErrInvalidBookingID
	}

	acquired, err := locks.AcquireBookingLock(ctx, bookingID, bookingLockTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrBookingLocked
	}
	defer func() {
		_ = locks.ReleaseBookingLock(ctx, bookingID)
	}()

	return fn()
}

// NewInvoiceNumber generates a human-readable invoice number with the given
// prefix, e.g. INV-174065-042.
func NewInvoiceNumber(prefix string) string {
	ts := time.Now().Unix() % 1000000
	return fmt.Sprintf("%s-%06d-%03d", prefix, ts, rand.Intn(1000))
}
