package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
)

const (
	defaultPageLimit = 9
	maxPageLimit     = 50
)

// CatalogService handles car catalog operations.
type CatalogService struct {
	carRepo     repository.CarRepository
	bookingRepo repository.BookingRepository
	cache       redis.CarCacheInterface
	images      ImageStore
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	carRepo repository.CarRepository,
	bookingRepo repository.BookingRepository,
	cache redis.CarCacheInterface,
	images ImageStore,
) *CatalogService {
	return &CatalogService{
		carRepo:     carRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		images:      images,
	}
}

// ListCarsRequest contains the parameters for listing the catalog.
type ListCarsRequest struct {
	Page         int
	Limit        int
	Transmission string
	Category     string
	Sort         string
}

// CarPage is one page of catalog results.
type CarPage struct {
	Cars       []*domain.Car
	Total      int
	TotalPages int
	Page       int
}

// cachedCarPage is the serialized form of a CarPage kept in Redis.
type cachedCarPage struct {
	Cars       []*redis.CachedCar `json:"cars"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
	Page       int                `json:"page"`
}

// ListCars retrieves a page of cars with optional filters. Pages are cached
// briefly; catalog browsing tolerates slightly stale data.
func (s *CatalogService) ListCars(ctx context.Context, req ListCarsRequest) (*CarPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = defaultPageLimit
	}
	if req.Limit > maxPageLimit {
		req.Limit = maxPageLimit
	}

	transmission := domain.Transmission("")
	if req.Transmission != "" && req.Transmission != "all" {
		t, err := ValidateTransmission(req.Transmission)
		if err != nil {
			return nil, err
		}
		transmission = t
	}

	category := req.Category
	if category == "all" {
		category = ""
	}

	sort := repository.CarSortName
	switch req.Sort {
	case "", "name":
	case string(repository.CarSortPriceAsc):
		sort = repository.CarSortPriceAsc
	case string(repository.CarSortPriceDesc):
		sort = repository.CarSortPriceDesc
	default:
		return nil, ErrInvalidSort
	}

	cacheKey := fmt.Sprintf("p%d:l%d:t%s:c%s:s%s", req.Page, req.Limit, transmission, category, sort)
	if s.cache != nil {
		if data, err := s.cache.GetCarList(ctx, cacheKey); err == nil && data != nil {
			var cached cachedCarPage
			if err := json.Unmarshal(data, &cached); err == nil {
				return pageFromCache(&cached), nil
			}
		}
	}

	cars, total, err := s.carRepo.List(ctx, repository.CarFilter{
		Transmission: transmission,
		Category:     category,
		Sort:         sort,
		Limit:        req.Limit,
		Offset:       (req.Page - 1) * req.Limit,
	})
	if err != nil {
		return nil, err
	}

	page := &CarPage{
		Cars:       cars,
		Total:      total,
		TotalPages: (total + req.Limit - 1) / req.Limit,
		Page:       req.Page,
	}

	if s.cache != nil {
		if data, err := json.Marshal(pageToCache(page)); err == nil {
			_ = s.cache.SetCarList(ctx, cacheKey, data)
		}
	}

	return page, nil
}

// GetCar retrieves a single car, preferring the cache.
func (s *CatalogService) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	if carID == "" {
		return nil, ErrInvalidCarID
	}

	if s.cache != nil {
		if cached, err := s.cache.GetCar(ctx, carID); err == nil && cached != nil {
			return carFromCache(cached), nil
		}
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetCar(ctx, carToCache(car))
	}

	return car, nil
}

// CreateCarRequest contains the parameters for adding a car.
type CreateCarRequest struct {
	Name         string
	Brand        string
	Year         int
	PricePerDay  int64
	Transmission string
	Capacity     int
	Category     string
	Description  string
	Features     []string
	ImageURL     string
}

// CreateCar adds a new car to the catalog.
func (s *CatalogService) CreateCar(ctx context.Context, req CreateCarRequest) (*domain.Car, error) {
	if req.Name == "" || req.Brand == "" {
		return nil, ErrInvalidCarName
	}
	if req.PricePerDay < 0 {
		return nil, ErrInvalidPricePerDay
	}

	transmission, err := ValidateTransmission(req.Transmission)
	if err != nil {
		return nil, err
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 4
	}

	car := &domain.Car{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Brand:        req.Brand,
		Year:         req.Year,
		PricePerDay:  req.PricePerDay,
		Transmission: transmission,
		Capacity:     capacity,
		Category:     req.Category,
		Description:  req.Description,
		Features:     req.Features,
		ImageURL:     req.ImageURL,
		CreatedAt:    time.Now(),
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}

	return car, nil
}

// UpdateCarRequest contains the fields to merge into an existing car. Nil
// fields are left untouched.
type UpdateCarRequest struct {
	Name         *string
	Brand        *string
	Year         *int
	PricePerDay  *int64
	Transmission *string
	Capacity     *int
	Category     *string
	Description  *string
	Features     *[]string
	ImageURL     *string
}

// UpdateCar applies a partial update to a car.
func (s *CatalogService) UpdateCar(ctx context.Context, carID string, req UpdateCarRequest) (*domain.Car, error) {
	if carID == "" {
		return nil, ErrInvalidCarID
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		car.Name = *req.Name
	}
	if req.Brand != nil {
		car.Brand = *req.Brand
	}
	if req.Year != nil {
		car.Year = *req.Year
	}
	if req.PricePerDay != nil {
		car.PricePerDay = *req.PricePerDay
	}
	if req.Transmission != nil {
		transmission, err := ValidateTransmission(*req.Transmission)
		if err != nil {
			return nil, err
		}
		car.Transmission = transmission
	}
	if req.Capacity != nil {
		car.Capacity = *req.Capacity
	}
	if req.Category != nil {
		car.Category = *req.Category
	}
	if req.Description != nil {
		car.Description = *req.Description
	}
	if req.Features != nil {
		car.Features = *req.Features
	}
	if req.ImageURL != nil {
		car.ImageURL = *req.ImageURL
	}

	if car.Name == "" || car.Brand == "" {
		return nil, ErrInvalidCarName
	}
	if car.PricePerDay < 0 {
		return nil, ErrInvalidPricePerDay
	}

	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateCar(ctx, car.ID)
	}

	return car, nil
}

// DeleteCar removes a car from the catalog. Deletion is refused while
// active bookings still reference the car so the ledger keeps no dangling
// references.
func (s *CatalogService) DeleteCar(ctx context.Context, carID string) error {
	if carID == "" {
		return ErrInvalidCarID
	}

	active, err := s.bookingRepo.CountActiveByCarID(ctx, carID)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrCarHasActiveBookings
	}

	if err := s.carRepo.Delete(ctx, carID); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateCar(ctx, carID)
	}

	return nil
}

// AttachImage uploads a car image and stores its URL on the car. If the
// object store refuses the upload the car keeps a placeholder URL.
func (s *CatalogService) AttachImage(ctx context.Context, carID, fileName string, data []byte) (*domain.Car, error) {
	if carID == "" {
		return nil, ErrInvalidCarID
	}

	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Upload(ctx, fileName, data)
	if err != nil {
		url = PlaceholderImageURL
	}

	car.ImageURL = url
	if err := s.carRepo.Update(ctx, car); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateCar(ctx, car.ID)
	}

	return car, nil
}

// ValidateTransmission validates a transmission string. Empty defaults to
// Manual; anything else unrecognized is rejected.
func ValidateTransmission(transmission string) (domain.Transmission, error) {
	switch domain.Transmission(transmission) {
	case domain.TransmissionManual, domain.TransmissionAutomatic:
		return domain.Transmission(transmission), nil
	case "":
		return domain.TransmissionManual, nil
	default:
		return "", ErrInvalidTransmission
	}
}

func carToCache(car *domain.Car) *redis.CachedCar {
	return &redis.CachedCar{
		ID:           car.ID,
		Name:         car.Name,
		Brand:        car.Brand,
		Year:         car.Year,
		PricePerDay:  car.PricePerDay,
		Transmission: string(car.Transmission),
		Capacity:     car.Capacity,
		Category:     car.Category,
		Description:  car.Description,
		Features:     car.Features,
		ImageURL:     car.ImageURL,
	}
}

func carFromCache(cached *redis.CachedCar) *domain.Car {
	return &domain.Car{
		ID:           cached.ID,
		Name:         cached.Name,
		Brand:        cached.Brand,
		Year:         cached.Year,
		PricePerDay:  cached.PricePerDay,
		Transmission: domain.Transmission(cached.Transmission),
		Capacity:     cached.Capacity,
		Category:     cached.Category,
		Description:  cached.Description,
		Features:     cached.Features,
		ImageURL:     cached.ImageURL,
	}
}

func pageToCache(page *CarPage) *cachedCarPage {
	cached := &cachedCarPage{
		Total:      page.Total,
		TotalPages: page.TotalPages,
		Page:       page.Page,
	}
	for _, car := range page.Cars {
		cached.Cars = append(cached.Cars, carToCache(car))
	}
	return cached
}

func pageFromCache(cached *cachedCarPage) *CarPage {
	page := &CarPage{
		Total:      cached.Total,
		TotalPages: cached.TotalPages,
		Page:       cached.Page,
	}
	for _, car := range cached.Cars {
		page.Cars = append(page.Cars, carFromCache(car))
	}
	return page
}
