package redis

import (
	"context"
	"time"

	"rental/internal/domain"
)

// RoleCacheInterface defines the interface for cached role lookups.
type RoleCacheInterface interface {
	GetRole(ctx context.Context, userID string) (domain.Role, error)
	SetRole(ctx context.Context, userID string, role domain.Role) error
	InvalidateRole(ctx context.Context, userID string) error
}

// LockStoreInterface defines the interface for booking transition locks.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID string) error
}

// CarCacheInterface defines the interface for catalog caching.
type CarCacheInterface interface {
	GetCar(ctx context.Context, carID string) (*CachedCar, error)
	SetCar(ctx context.Context, car *CachedCar) error
	InvalidateCar(ctx context.Context, carID string) error
	GetCarList(ctx context.Context, filterKey string) ([]byte, error)
	SetCarList(ctx context.Context, filterKey string, payload []byte) error
}

// Ensure concrete types implement interfaces.
var (
	_ RoleCacheInterface = (*CacheStore)(nil)
	_ CarCacheInterface  = (*CacheStore)(nil)
	_ LockStoreInterface = (*LockStore)(nil)
)
