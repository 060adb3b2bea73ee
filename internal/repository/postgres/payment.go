package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rental/internal/domain"
	"rental/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, booking_id, amount, method, proof_url, status, invoice_number, notes, created_at`

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, method, proof_url, status, invoice_number, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Method,
		nullString(payment.ProofURL),
		payment.Status,
		payment.InvoiceNumber,
		nullString(payment.Notes),
		payment.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// GetByBookingID retrieves all payments for a booking, newest first.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// UpdateStatus moves a payment from one verification status to another.
// The status predicate makes the update a compare-and-set, so two
// verifiers racing on the same payment cannot both settle it.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.VerificationStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE payments SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
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

// SumCompletedByBookingID returns the total verified amount for a booking.
func (r *PaymentRepository) SumCompletedByBookingID(ctx context.Context, bookingID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE booking_id = $1 AND status = 'completed'
	`

	var total int64
	err := r.q.QueryRowContext(ctx, query, bookingID).Scan(&total)
	return total, err
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var proofURL, notes sql.NullString

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Method,
		&proofURL,
		&payment.Status,
		&payment.InvoiceNumber,
		&notes,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if proofURL.Valid {
		payment.ProofURL = proofURL.String
	}
	if notes.Valid {
		payment.Notes = notes.String
	}

	return &payment, nil
}
