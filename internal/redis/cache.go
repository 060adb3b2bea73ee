package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"rental/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	RoleCacheTTL    = 5 * time.Minute  // Roles change rarely; invalidated explicitly on sign-out
	CarCacheTTL     = 60 * time.Second // Catalog entries change only on admin edits
	CarListCacheTTL = 30 * time.Second // List pages tolerate brief staleness
)

// Key prefixes
const (
	roleCachePrefix    = "cache:role:"
	carCachePrefix     = "cache:car:"
	carListCachePrefix = "cache:cars:"
)

// GetRole retrieves a cached role for a user. Returns an empty role on
// cache miss.
func (s *CacheStore) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	role, err := s.client.Get(ctx, roleCachePrefix+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // Cache miss
		}
		return "", err
	}
	return domain.Role(role), nil
}

// SetRole stores a user's role with a bounded TTL.
func (s *CacheStore) SetRole(ctx context.Context, userID string, role domain.Role) error {
	return s.client.Set(ctx, roleCachePrefix+userID, string(role), RoleCacheTTL).Err()
}

// InvalidateRole removes a user's cached role, e.g. on sign-out.
func (s *CacheStore) InvalidateRole(ctx context.Context, userID string) error {
	return s.client.Del(ctx, roleCachePrefix+userID).Err()
}

// CachedCar represents a cached catalog entry.
type CachedCar struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Year         int      `json:"year"`
	PricePerDay  int64    `json:"price_per_day"`
	Transmission string   `json:"transmission"`
	Capacity     int      `json:"capacity"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	ImageURL     string   `json:"image_url"`
}

// GetCar retrieves a car from cache.
func (s *CacheStore) GetCar(ctx context.Context, carID string) (*CachedCar, error) {
	data, err := s.client.Get(ctx, carCachePrefix+carID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var car CachedCar
	if err := json.Unmarshal(data, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// SetCar stores a car in cache.
func (s *CacheStore) SetCar(ctx context.Context, car *CachedCar) error {
	data, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, carCachePrefix+car.ID, data, CarCacheTTL).Err()
}

// InvalidateCar removes a car from cache.
func (s *CacheStore) InvalidateCar(ctx context.Context, carID string) error {
	return s.client.Del(ctx, carCachePrefix+carID).Err()
}

// GetCarList retrieves a cached catalog page keyed by its filter string.
// The payload is the serialized listing response.
func (s *CacheStore) GetCarList(ctx context.Context, filterKey string) ([]byte, error) {
	data, err := s.client.Get(ctx, carListCachePrefix+filterKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// SetCarList stores a serialized catalog page. Pages expire on their own;
// a brief window of staleness after an admin edit is acceptable.
func (s *CacheStore) SetCarList(ctx context.Context, filterKey string, payload []byte) error {
	return s.client.Set(ctx, carListCachePrefix+filterKey, payload, CarListCacheTTL).Err()
}
