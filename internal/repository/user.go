package repository

import (
	"context"

	"rental/internal/domain"
)

// UserRepository defines the persistence operations for identity records.
type UserRepository interface {
	// Upsert creates the identity record or updates its email. The role of
	// an existing record is left untouched.
	Upsert(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetAll retrieves all users, newest first.
	GetAll(ctx context.Context) ([]*domain.User, error)
}
