package repository

import (
	"context"

	"rental/internal/domain"
)

// CarSort determines the ordering of catalog listings.
type CarSort string

const (
	CarSortName      CarSort = "name"
	CarSortPriceAsc  CarSort = "price-asc"
	CarSortPriceDesc CarSort = "price-desc"
)

// CarFilter narrows and pages a catalog listing.
type CarFilter struct {
	Transmission domain.Transmission // Empty means all
	Category     string              // Empty means all
	Sort         CarSort
	Limit        int
	Offset       int
}

// CarRepository defines the persistence operations for the car catalog.
type CarRepository interface {
	// Create persists a new car.
	Create(ctx context.Context, car *domain.Car) error

	// GetByID retrieves a car by ID.
	GetByID(ctx context.Context, id string) (*domain.Car, error)

	// List retrieves a page of cars matching the filter along with the
	// total count of matching cars.
	List(ctx context.Context, filter CarFilter) ([]*domain.Car, int, error)

	// Update updates an existing car.
	Update(ctx context.Context, car *domain.Car) error

	// Delete removes a car.
	Delete(ctx context.Context, id string) error
}
