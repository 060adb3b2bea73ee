package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
	"rental/internal/repository/postgres"
)

// InspectionService records pickup and return inspections and drives the
// corresponding booking transitions.
type InspectionService struct {
	db             *sql.DB
	inspectionRepo repository.InspectionRepository
	bookingRepo    repository.BookingRepository
	locks          redis.LockStoreInterface
	notifier       *NotificationService
}

// NewInspectionService creates a new InspectionService.
func NewInspectionService(
	db *sql.DB,
	inspectionRepo repository.InspectionRepository,
	bookingRepo repository.BookingRepository,
	locks redis.LockStoreInterface,
	notifier *NotificationService,
) *InspectionService {
	return &InspectionService{
		db:             db,
		inspectionRepo: inspectionRepo,
		bookingRepo:    bookingRepo,
		locks:          locks,
		notifier:       notifier,
	}
}

// RecordInspectionRequest contains the condition snapshot supplied by the
// admin at pickup or return time.
type RecordInspectionRequest struct {
	BookingID         string
	Location          string
	Time              time.Time
	FuelLevel         int
	Odometer          int
	ExteriorCondition string
	InteriorCondition string
	DamageNotes       string
	Images            []string
}

// RecordPickup records a pickup inspection and transitions the booking to
// in_use. The booking must be confirmed, fully paid and not yet picked up.
func (s *InspectionService) RecordPickup(ctx context.Context, req RecordInspectionRequest) (*domain.Booking, error) {
	if err := validateInspection(req); err != nil {
		return nil, err
	}
	if req.Time.IsZero() {
		req.Time = time.Now()
	}

	var booking *domain.Booking
	err := withBookingLock(ctx, s.locks, req.BookingID, func() error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}

		if booking.PickupCompleted {
			return ErrPickupAlreadyRecorded
		}
		if !domain.CanTransition(booking.Status, domain.BookingStatusInUse) {
			return ErrInvalidStatusTransition
		}
		if booking.PaymentStatus != domain.PaymentStatusPaid {
			return ErrPaymentRequired
		}

		inspection := newInspection(req, domain.InspectionPickup)

		booking.PickupLocation = req.Location
		booking.PickupTime = req.Time
		booking.PickupCompleted = true
		booking.Status = domain.BookingStatusInUse

		return s.inTx(ctx, func(inspectionRepo repository.InspectionRepository, bookingRepo repository.BookingRepository) error {
			if err := inspectionRepo.Create(ctx, inspection); err != nil {
				return err
			}
			return bookingRepo.Update(ctx, booking)
		})
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.NotifyCarPickedUp(ctx, booking)

	return booking, nil
}

// RecordReturn records a return inspection and transitions the booking to
// completed. The booking must be in use with its pickup recorded.
func (s *InspectionService) RecordReturn(ctx context.Context, req RecordInspectionRequest) (*domain.Booking, error) {
	if err := validateInspection(req); err != nil {
		return nil, err
	}
	if req.Time.IsZero() {
		req.Time = time.Now()
	}

	var booking *domain.Booking
	err := withBookingLock(ctx, s.locks, req.BookingID, func() error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}

		if booking.ReturnCompleted {
			return ErrReturnAlreadyRecorded
		}
		if !booking.PickupCompleted {
			return ErrPickupNotRecorded
		}
		if !domain.CanTransition(booking.Status, domain.BookingStatusCompleted) {
			return ErrInvalidStatusTransition
		}

		inspection := newInspection(req, domain.InspectionReturn)

		booking.ReturnLocation = req.Location
		booking.ReturnTime = req.Time
		booking.ReturnCompleted = true
		booking.Status = domain.BookingStatusCompleted

		return s.inTx(ctx, func(inspectionRepo repository.InspectionRepository, bookingRepo repository.BookingRepository) error {
			if err := inspectionRepo.Create(ctx, inspection); err != nil {
				return err
			}
			return bookingRepo.Update(ctx, booking)
		})
	})
	if err != nil {
		return nil, err
	}

	_ = s.notifier.NotifyCarReturned(ctx, booking)

	return booking, nil
}

// GetInspections retrieves a booking's inspections, newest first.
func (s *InspectionService) GetInspections(ctx context.Context, bookingID string) ([]*domain.Inspection, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	return s.inspectionRepo.GetByBookingID(ctx, bookingID)
}

func validateInspection(req RecordInspectionRequest) error {
	if req.BookingID == "" {
		return ErrInvalidBookingID
	}
	if req.Location == "" {
		return ErrInvalidInspectionLocation
	}
	if req.FuelLevel < 0 || req.FuelLevel > 100 {
		return ErrInvalidFuelLevel
	}
	return nil
}

func newInspection(req RecordInspectionRequest, typ domain.InspectionType) *domain.Inspection {
	return &domain.Inspection{
		ID:                uuid.New().String(),
		BookingID:         req.BookingID,
		Type:              typ,
		FuelLevel:         req.FuelLevel,
		Odometer:          req.Odometer,
		ExteriorCondition: req.ExteriorCondition,
		InteriorCondition: req.InteriorCondition,
		DamageNotes:       req.DamageNotes,
		Images:            req.Images,
		CreatedAt:         time.Now(),
	}
}

// inTx runs fn with transaction-scoped repositories, rolling back on error.
// Without a database handle the injected repositories are used directly.
func (s *InspectionService) inTx(ctx context.Context, fn func(repository.InspectionRepository, repository.BookingRepository) error) error {
	if s.db == nil {
		return fn(s.inspectionRepo, s.bookingRepo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(postgres.NewInspectionRepositoryWithTx(tx), postgres.NewBookingRepositoryWithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
