package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"rental/internal/domain"
)

// InspectionRepository is a PostgreSQL implementation of repository.InspectionRepository.
type InspectionRepository struct {
	q Querier
}

// NewInspectionRepository creates a new PostgreSQL inspection repository.
func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{q: db}
}

// NewInspectionRepositoryWithTx creates an inspection repository using a transaction.
func NewInspectionRepositoryWithTx(tx *sql.Tx) *InspectionRepository {
	return &InspectionRepository{q: tx}
}

// Create persists a new inspection.
func (r *InspectionRepository) Create(ctx context.Context, inspection *domain.Inspection) error {
	query := `
		INSERT INTO inspections (id, booking_id, type, fuel_level, odometer, exterior_condition, interior_condition, damage_notes, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		inspection.ID,
		inspection.BookingID,
		inspection.Type,
		inspection.FuelLevel,
		inspection.Odometer,
		nullString(inspection.ExteriorCondition),
		nullString(inspection.InteriorCondition),
		nullString(inspection.DamageNotes),
		pq.Array(inspection.Images),
		inspection.CreatedAt,
	)

	return err
}

// GetByBookingID retrieves all inspections for a booking, newest first.
func (r *InspectionRepository) GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Inspection, error) {
	query := `
		SELECT id, booking_id, type, fuel_level, odometer, exterior_condition, interior_condition, damage_notes, images, created_at
		FROM inspections WHERE booking_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []*domain.Inspection
	for rows.Next() {
		var inspection domain.Inspection
		var exterior, interior, damage sql.NullString

		if err := rows.Scan(
			&inspection.ID,
			&inspection.BookingID,
			&inspection.Type,
			&inspection.FuelLevel,
			&inspection.Odometer,
			&exterior,
			&interior,
			&damage,
			pq.Array(&inspection.Images),
			&inspection.CreatedAt,
		); err != nil {
			return nil, err
		}

		if exterior.Valid {
			inspection.ExteriorCondition = exterior.String
		}
		if interior.Valid {
			inspection.InteriorCondition = interior.String
		}
		if damage.Valid {
			inspection.DamageNotes = damage.String
		}

		inspections = append(inspections, &inspection)
	}
	return inspections, rows.Err()
}
