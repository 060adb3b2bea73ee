package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rental/internal/domain"
	"rental/internal/repository"
)

// CarRepository is a PostgreSQL implementation of repository.CarRepository.
type CarRepository struct {
	q Querier
}

// NewCarRepository creates a new PostgreSQL car repository.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{q: db}
}

// NewCarRepositoryWithTx creates a car repository using a transaction.
func NewCarRepositoryWithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{q: tx}
}

const carColumns = `id, name, brand, year, price_per_day, transmission, capacity, category, description, features, image_url, created_at`

// Create persists a new car.
func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (id, name, brand, year, price_per_day, transmission, capacity, category, description, features, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var imageURL sql.NullString
	if car.ImageURL != "" {
		imageURL = sql.NullString{String: car.ImageURL, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		car.ID,
		car.Name,
		car.Brand,
		car.Year,
		car.PricePerDay,
		car.Transmission,
		car.Capacity,
		car.Category,
		car.Description,
		pq.Array(car.Features),
		imageURL,
		car.CreatedAt,
	)

	return err
}

// GetByID retrieves a car by ID.
func (r *CarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return car, nil
}

// List retrieves a page of cars matching the filter plus the total count.
func (r *CarRepository) List(ctx context.Context, filter repository.CarFilter) ([]*domain.Car, int, error) {
	where := ` WHERE 1=1`
	var args []any

	if filter.Transmission != "" {
		args = append(args, filter.Transmission)
		where += fmt.Sprintf(` AND transmission = $%d`, len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := ` ORDER BY name`
	switch filter.Sort {
	case repository.CarSortPriceAsc:
		order = ` ORDER BY price_per_day ASC, name`
	case repository.CarSortPriceDesc:
		order = ` ORDER BY price_per_day DESC, name`
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + carColumns + ` FROM cars` + where + order +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []*domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, car)
	}
	return cars, total, rows.Err()
}

// Update updates an existing car.
func (r *CarRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `
		UPDATE cars
		SET name = $1, brand = $2, year = $3, price_per_day = $4, transmission = $5, capacity = $6, category = $7, description = $8, features = $9, image_url = $10
		WHERE id = $11
	`

	var imageURL sql.NullString
	if car.ImageURL != "" {
		imageURL = sql.NullString{String: car.ImageURL, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		car.Name,
		car.Brand,
		car.Year,
		car.PricePerDay,
		car.Transmission,
		car.Capacity,
		car.Category,
		car.Description,
		pq.Array(car.Features),
		imageURL,
		car.ID,
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

// Delete removes a car.
func (r *CarRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
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

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*domain.Car, error) {
	var car domain.Car
	var imageURL sql.NullString

	err := row.Scan(
		&car.ID,
		&car.Name,
		&car.Brand,
		&car.Year,
		&car.PricePerDay,
		&car.Transmission,
		&car.Capacity,
		&car.Category,
		&car.Description,
		pq.Array(&car.Features),
		&imageURL,
		&car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imageURL.Valid {
		car.ImageURL = imageURL.String
	}

	return &car, nil
}
