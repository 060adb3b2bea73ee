package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rental/internal/domain"
	"rental/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, car_id, user_id, start_date, end_date, total_price, status, payment_status, customer_name, customer_phone, customer_email, notes, invoice_number, pickup_location, pickup_time, is_pickup_completed, return_location, return_time, is_return_completed, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, car_id, user_id, start_date, end_date, total_price, status, payment_status, customer_name, customer_phone, customer_email, notes, invoice_number, pickup_location, pickup_time, is_pickup_completed, return_location, return_time, is_return_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CarID,
		booking.UserID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalPrice,
		booking.Status,
		booking.PaymentStatus,
		booking.CustomerName,
		booking.CustomerPhone,
		booking.CustomerEmail,
		nullString(booking.Notes),
		booking.InvoiceNumber,
		nullString(booking.PickupLocation),
		nullTime(booking.PickupTime),
		booking.PickupCompleted,
		nullString(booking.ReturnLocation),
		nullTime(booking.ReturnTime),
		booking.ReturnCompleted,
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// GetAll retrieves all bookings, newest first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return r.queryBookings(ctx, query)
}

// GetByUserID retrieves a user's bookings, newest first.
func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(ctx, query, userID)
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, notes = $3, pickup_location = $4, pickup_time = $5, is_pickup_completed = $6, return_location = $7, return_time = $8, is_return_completed = $9
		WHERE id = $10
	`

	result, err := r.q.ExecContext(ctx, query,
		booking.Status,
		booking.PaymentStatus,
		nullString(booking.Notes),
		nullString(booking.PickupLocation),
		nullTime(booking.PickupTime),
		booking.PickupCompleted,
		nullString(booking.ReturnLocation),
		nullTime(booking.ReturnTime),
		booking.ReturnCompleted,
		booking.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// HasOverlapping reports whether the car has an active booking overlapping
// [start, end). Completed and cancelled bookings do not block new dates.
func (r *BookingRepository) HasOverlapping(ctx context.Context, carID string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE car_id = $1
			  AND status IN ('pending', 'confirmed', 'in_use')
			  AND start_date < $3
			  AND end_date > $2
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, carID, start, end).Scan(&exists)
	return exists, err
}

// CountActiveByCarID returns the number of non-terminal bookings for the car.
func (r *BookingRepository) CountActiveByCarID(ctx context.Context, carID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE car_id = $1 AND status NOT IN ('completed', 'cancelled')
	`

	var count int
	err := r.q.QueryRowContext(ctx, query, carID).Scan(&count)
	return count, err
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var notes, pickupLocation, returnLocation sql.NullString
	var pickupTime, returnTime sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CarID,
		&booking.UserID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalPrice,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.CustomerEmail,
		&notes,
		&booking.InvoiceNumber,
		&pickupLocation,
		&pickupTime,
		&booking.PickupCompleted,
		&returnLocation,
		&returnTime,
		&booking.ReturnCompleted,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notes.Valid {
		booking.Notes = notes.String
	}
	if pickupLocation.Valid {
		booking.PickupLocation = pickupLocation.String
	}
	if pickupTime.Valid {
		booking.PickupTime = pickupTime.Time
	}
	if returnLocation.Valid {
		booking.ReturnLocation = returnLocation.String
	}
	if returnTime.Valid {
		booking.ReturnTime = returnTime.Time
	}

	return &booking, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
