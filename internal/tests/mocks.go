package tests

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"rental/internal/domain"
	"rental/internal/redis"
	"rental/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CAR REPOSITORY
// ──────────────────────────────────────────────

// MockCarRepository is a mock implementation of CarRepository.
type MockCarRepository struct {
	mu   sync.RWMutex
	cars map[string]*domain.Car

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	DeleteError error
}

// NewMockCarRepository creates a new mock car repository.
func NewMockCarRepository() *MockCarRepository {
	return &MockCarRepository{
		cars: make(map[string]*domain.Car),
	}
}

// AddCar adds a car to the mock repository.
func (m *MockCarRepository) AddCar(car *domain.Car) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
}

func (m *MockCarRepository) Create(ctx context.Context, car *domain.Car) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	car, ok := m.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *car
	return &copy, nil
}

func (m *MockCarRepository) List(ctx context.Context, filter repository.CarFilter) ([]*domain.Car, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.Car
	for _, c := range m.cars {
		if filter.Transmission != "" && c.Transmission != filter.Transmission {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(c.Category, filter.Category) {
			continue
		}
		copy := *c
		matched = append(matched, &copy)
	}

	switch filter.Sort {
	case repository.CarSortPriceAsc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].PricePerDay < matched[j].PricePerDay })
	case repository.CarSortPriceDesc:
		sort.Slice(matched, func(i, j int) bool { return matched[i].PricePerDay > matched[j].PricePerDay })
	default:
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	}

	total := len(matched)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}
	return matched[filter.Offset:end], total, nil
}

func (m *MockCarRepository) Update(ctx context.Context, car *domain.Car) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cars[car.ID]; !ok {
		return repository.ErrNotFound
	}
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cars[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.cars, id)
	return nil
}

// GetCar returns the car by ID (for test assertions).
func (m *MockCarRepository) GetCar(id string) *domain.Car {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cars[id]
}

// CountCars returns the number of cars.
func (m *MockCarRepository) CountCars() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cars)
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) HasOverlapping(ctx context.Context, carID string, start, end time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.CarID != carID || b.Status.IsTerminal() {
			continue
		}
		if b.StartDate.Before(end) && b.EndDate.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockBookingRepository) CountActiveByCarID(ctx context.Context, carID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, b := range m.bookings {
		if b.CarID == carID && !b.Status.IsTerminal() {
			count++
		}
	}
	return count, nil
}

// GetBooking returns the booking by ID (for test assertions).
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error

	// AfterGetByID, when set, runs after each successful GetByID read,
	// letting a test interleave a concurrent mutation between a
	// caller's read and its next step.
	AfterGetByID func(id string)
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	payment, ok := m.payments[id]
	if !ok {
		m.mu.RUnlock()
		return nil, repository.ErrNotFound
	}
	copy := *payment
	m.mu.RUnlock()

	if m.AfterGetByID != nil {
		m.AfterGetByID(id)
	}
	return &copy, nil
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.VerificationStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok || payment.Status != from {
		return repository.ErrNotFound
	}
	payment.Status = to
	return nil
}

// SetPaymentStatus settles a payment directly (for test interleaving).
func (m *MockPaymentRepository) SetPaymentStatus(id string, status domain.VerificationStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if payment, ok := m.payments[id]; ok {
		payment.Status = status
	}
}

func (m *MockPaymentRepository) SumCompletedByBookingID(ctx context.Context, bookingID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.payments {
		if p.BookingID == bookingID && p.Status == domain.VerificationCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

// GetPayment returns the payment by ID (for test assertions).
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK INSPECTION REPOSITORY
// ──────────────────────────────────────────────

// MockInspectionRepository is a mock implementation of InspectionRepository.
type MockInspectionRepository struct {
	mu          sync.RWMutex
	inspections map[string]*domain.Inspection

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockInspectionRepository creates a new mock inspection repository.
func NewMockInspectionRepository() *MockInspectionRepository {
	return &MockInspectionRepository{
		inspections: make(map[string]*domain.Inspection),
	}
}

func (m *MockInspectionRepository) Create(ctx context.Context, inspection *domain.Inspection) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspections[inspection.ID] = inspection
	return nil
}

func (m *MockInspectionRepository) GetByBookingID(ctx context.Context, bookingID string) ([]*domain.Inspection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Inspection
	for _, i := range m.inspections {
		if i.BookingID == bookingID {
			copy := *i
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountInspections returns the number of inspections.
func (m *MockInspectionRepository) CountInspections() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.inspections)
}

// InspectionsOfType returns the inspections of a given type for a booking.
func (m *MockInspectionRepository) InspectionsOfType(bookingID string, typ domain.InspectionType) []*domain.Inspection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Inspection
	for _, i := range m.inspections {
		if i.BookingID == bookingID && i.Type == typ {
			result = append(result, i)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters
	UpsertCallCount int32
	GetByIDCount    int32

	// Error injection
	UpsertError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[user.ID]; ok {
		existing.Email = user.Email
		return nil
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	atomic.AddInt32(&m.GetByIDCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

// GetUser returns the user by ID (for test assertions).
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:booking:" + bookingID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:booking:"+bookingID)
	return nil
}

// IsLocked checks if a booking is locked (for test assertions).
func (m *MockLockStore) IsLocked(bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:booking:"+bookingID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK ROLE CACHE
// ──────────────────────────────────────────────

// MockRoleCache is a mock implementation of RoleCacheInterface.
type MockRoleCache struct {
	mu    sync.RWMutex
	roles map[string]domain.Role

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockRoleCache creates a new mock role cache.
func NewMockRoleCache() *MockRoleCache {
	return &MockRoleCache{
		roles: make(map[string]domain.Role),
	}
}

func (m *MockRoleCache) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roles[userID], nil // Empty role on miss
}

func (m *MockRoleCache) SetRole(ctx context.Context, userID string, role domain.Role) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[userID] = role
	return nil
}

func (m *MockRoleCache) InvalidateRole(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, userID)
	return nil
}

// HasRole checks whether a role is cached (for test assertions).
func (m *MockRoleCache) HasRole(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.roles[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK CAR CACHE
// ──────────────────────────────────────────────

// MockCarCache is a mock implementation of CarCacheInterface.
type MockCarCache struct {
	mu    sync.RWMutex
	cars  map[string]*redis.CachedCar
	lists map[string][]byte

	// Counters
	GetCarCallCount     int32
	SetCarCallCount     int32
	InvalidateCallCount int32
}

// NewMockCarCache creates a new mock car cache.
func NewMockCarCache() *MockCarCache {
	return &MockCarCache{
		cars:  make(map[string]*redis.CachedCar),
		lists: make(map[string][]byte),
	}
}

func (m *MockCarCache) GetCar(ctx context.Context, carID string) (*redis.CachedCar, error) {
	atomic.AddInt32(&m.GetCarCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cars[carID], nil // Nil on miss
}

func (m *MockCarCache) SetCar(ctx context.Context, car *redis.CachedCar) error {
	atomic.AddInt32(&m.SetCarCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[car.ID] = car
	return nil
}

func (m *MockCarCache) InvalidateCar(ctx context.Context, carID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, carID)
	return nil
}

func (m *MockCarCache) GetCarList(ctx context.Context, filterKey string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lists[filterKey], nil // Nil on miss
}

func (m *MockCarCache) SetCarList(ctx context.Context, filterKey string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[filterKey] = payload
	return nil
}

// HasCachedCar checks whether a car is cached (for test assertions).
func (m *MockCarCache) HasCachedCar(carID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cars[carID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK IMAGE STORE
// ──────────────────────────────────────────────

// MockImageStore is a mock implementation of ImageStore.
type MockImageStore struct {
	mu      sync.Mutex
	uploads map[string][]byte

	// Counters
	UploadCallCount int32

	// Error injection
	UploadError error
}

// NewMockImageStore creates a new mock image store.
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		uploads: make(map[string][]byte),
	}
}

func (m *MockImageStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	atomic.AddInt32(&m.UploadCallCount, 1)
	if m.UploadError != nil {
		return "", m.UploadError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[name] = data
	return "/uploads/" + name, nil
}

// CountUploads returns the number of stored uploads.
func (m *MockImageStore) CountUploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
