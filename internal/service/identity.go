package service

import (
	"context"
	"time"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
)

// IdentityService resolves identity records and roles. Authentication is the
// external identity provider's job; this service owns the role lookup the
// workflow uses to gate admin operations, backed by an injected TTL-bounded
// cache with explicit invalidation on sign-out.
type IdentityService struct {
	userRepo repository.UserRepository
	roles    redis.RoleCacheInterface
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository, roles redis.RoleCacheInterface) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		roles:    roles,
	}
}

// RegisterRequest contains the parameters for registering an identity record.
type RegisterRequest struct {
	ID    string
	Email string
	Role  string
}

// Register upserts the identity record for a user the identity provider has
// authenticated. The role of an existing record is never changed here, and a
// new record always starts as a regular user: elevated roles are granted out
// of band, never through self-registration.
func (s *IdentityService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.ID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Email == "" {
		return nil, ErrInvalidCustomerInfo
	}

	role, err := ValidateRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleUser {
		return nil, ErrInvalidRole
	}

	user := &domain.User{
		ID:        req.ID,
		Email:     req.Email,
		Role:      role,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetRole resolves a user's role, preferring the cache. A missing record
// surfaces as repository.ErrNotFound.
func (s *IdentityService) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	if s.roles != nil {
		if role, err := s.roles.GetRole(ctx, userID); err == nil && role != "" {
			return role, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if s.roles != nil {
		_ = s.roles.SetRole(ctx, userID, user.Role)
	}

	return user.Role, nil
}

// ListUsers retrieves all identity records, newest first.
func (s *IdentityService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// SignOut drops the user's cached role so a re-authenticated session starts
// from a fresh lookup.
func (s *IdentityService) SignOut(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if s.roles == nil {
		return nil
	}
	return s.roles.InvalidateRole(ctx, userID)
}

// ValidateRole validates a role string. Empty defaults to user; anything
// else unrecognized is rejected.
func ValidateRole(role string) (domain.Role, error) {
	switch domain.Role(role) {
	case domain.RoleUser, domain.RoleAdmin:
		return domain.Role(role), nil
	case "":
		return domain.RoleUser, nil
	default:
		return "", ErrInvalidRole
	}
}
