package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"delivery/internal/domain"
	"delivery/internal/events"
	"delivery/internal/redis"
	"delivery/internal/repository"
)

// ErrStorageDown is injected to simulate an unavailable database.
var ErrStorageDown = errors.New("storage unavailable")

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
// FindOnlineDrivers applies the same availability and recency filter as
// the PostgreSQL query.
type MockDriverRepository struct {
	mu        sync.RWMutex
	drivers   map[string]*domain.Driver
	positions map[string][]domain.DriverPosition

	// Counters for verification
	CreateCallCount     int32
	FindOnlineCallCount int32
	RecordCallCount     int32

	// Error injection
	CreateError     error
	FindOnlineError error
	RecordError     error

	// LastCutoff is the cutoff passed to the last FindOnlineDrivers call.
	LastCutoff time.Time
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers:   make(map[string]*domain.Driver),
		positions: make(map[string][]domain.DriverPosition),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

// AddPosition appends a position report without counting a call.
func (m *MockDriverRepository) AddPosition(driverID string, lat, lng float64, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[driverID] = append(m.positions[driverID], domain.DriverPosition{
		DriverID:   driverID,
		Point:      domain.GeoPoint{Latitude: lat, Longitude: lng},
		RecordedAt: at,
	})
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.Phone == phone {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsAvailable = available
	return nil
}

func (m *MockDriverRepository) RecordPosition(ctx context.Context, pos *domain.DriverPosition) error {
	atomic.AddInt32(&m.RecordCallCount, 1)
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions[pos.DriverID] = append(m.positions[pos.DriverID], *pos)
	return nil
}

func (m *MockDriverRepository) FindOnlineDrivers(ctx context.Context, cutoff time.Time) ([]domain.DriverCandidate, error) {
	atomic.AddInt32(&m.FindOnlineCallCount, 1)
	if m.FindOnlineError != nil {
		return nil, m.FindOnlineError
	}

	m.mu.Lock()
	m.LastCutoff = cutoff
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.DriverCandidate
	for id, d := range m.drivers {
		if !d.IsAvailable {
			continue
		}
		latest, ok := latestPosition(m.positions[id])
		if !ok || latest.RecordedAt.Before(cutoff) {
			continue
		}
		out = append(out, domain.DriverCandidate{
			ID:           d.ID,
			Name:         d.Name,
			TravelMode:   d.TravelMode,
			IsAvailable:  d.IsAvailable,
			LastPosition: &latest,
		})
	}
	// Reverse id order so tests never depend on fetch order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// Positions returns the recorded positions for a driver.
func (m *MockDriverRepository) Positions(driverID string) []domain.DriverPosition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.DriverPosition(nil), m.positions[driverID]...)
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

func latestPosition(ps []domain.DriverPosition) (domain.DriverPosition, bool) {
	if len(ps) == 0 {
		return domain.DriverPosition{}, false
	}
	latest := ps[0]
	for _, p := range ps[1:] {
		if p.RecordedAt.After(latest.RecordedAt) {
			latest = p
		}
	}
	return latest, true
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
// AssignDriverIfUnassigned is atomic under the mutex, like the SQL update.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount int32
	AssignCallCount int32
	AssignWrites    int32

	// Error injection
	GetError    error
	AssignError error
	ListError   error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	if to == domain.OrderStatusConfirmed {
		order.ConfirmedAt = time.Now()
	}
	return true, nil
}

func (m *MockOrderRepository) AssignDriverIfUnassigned(ctx context.Context, orderID, driverID, assignedBy string, assignedAt time.Time) (bool, error) {
	atomic.AddInt32(&m.AssignCallCount, 1)
	if m.AssignError != nil {
		return false, m.AssignError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok || order.DriverID != "" {
		return false, nil
	}
	order.DriverID = driverID
	order.AssignedBy = assignedBy
	order.AssignedAt = assignedAt
	atomic.AddInt32(&m.AssignWrites, 1)
	return true, nil
}

func (m *MockOrderRepository) ListUnassignedConfirmed(ctx context.Context, limit int) ([]string, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, o := range m.orders {
		if o.Status == domain.OrderStatusConfirmed && o.DriverID == "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// GetOrder returns order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		copy := *o
		return &copy
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK RESTAURANT REPOSITORY
// ──────────────────────────────────────────────

// MockRestaurantRepository is a mock implementation of RestaurantRepository.
type MockRestaurantRepository struct {
	mu          sync.RWMutex
	restaurants map[string]*domain.Restaurant

	GetLocationCallCount int32
	GetLocationError     error
}

// NewMockRestaurantRepository creates a new mock restaurant repository.
func NewMockRestaurantRepository() *MockRestaurantRepository {
	return &MockRestaurantRepository{
		restaurants: make(map[string]*domain.Restaurant),
	}
}

// AddRestaurant adds a restaurant to the mock repository.
func (m *MockRestaurantRepository) AddRestaurant(r *domain.Restaurant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants[r.ID] = r
}

func (m *MockRestaurantRepository) Create(ctx context.Context, r *domain.Restaurant) error {
	m.AddRestaurant(r)
	return nil
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (m *MockRestaurantRepository) GetLocation(ctx context.Context, id string) (*domain.GeoPoint, error) {
	atomic.AddInt32(&m.GetLocationCallCount, 1)
	if m.GetLocationError != nil {
		return nil, m.GetLocationError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.Location == nil {
		return nil, nil
	}
	p := *r.Location
	return &p, nil
}

func (m *MockRestaurantRepository) UpdateLocation(ctx context.Context, id string, location *domain.GeoPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restaurants[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Location = location
	return nil
}

// ──────────────────────────────────────────────
// MOCK SETTING REPOSITORY
// ──────────────────────────────────────────────

// MockSettingRepository is a mock implementation of SettingRepository.
type MockSettingRepository struct {
	mu     sync.RWMutex
	values map[string]int

	GetCallCount int32
	GetError     error
}

// NewMockSettingRepository creates a new mock setting repository.
func NewMockSettingRepository() *MockSettingRepository {
	return &MockSettingRepository{values: make(map[string]int)}
}

func (m *MockSettingRepository) GetInt(ctx context.Context, key string) (int, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return 0, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return v, nil
}

func (m *MockSettingRepository) SetInt(ctx context.Context, key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// ──────────────────────────────────────────────
// MOCK DRIVER LOCKER
// ──────────────────────────────────────────────

// MockDriverLocker is an in-memory implementation of DriverLocker.
type MockDriverLocker struct {
	mu    sync.Mutex
	holds map[string]string // driverID -> orderID

	ReserveError error
	ReleaseError error
}

// NewMockDriverLocker creates a new mock driver locker.
func NewMockDriverLocker() *MockDriverLocker {
	return &MockDriverLocker{holds: make(map[string]string)}
}

func (m *MockDriverLocker) Reserve(ctx context.Context, driverID, orderID string, ttl time.Duration) (bool, error) {
	if m.ReserveError != nil {
		return false, m.ReserveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.holds[driverID]; held {
		return false, nil
	}
	m.holds[driverID] = orderID
	return true, nil
}

func (m *MockDriverLocker) Release(ctx context.Context, driverID, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReleaseError != nil {
		return m.ReleaseError
	}
	if m.holds[driverID] == orderID {
		delete(m.holds, driverID)
	}
	return nil
}

// Holder returns the order holding driverID, or "".
func (m *MockDriverLocker) Holder(driverID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holds[driverID]
}

// ──────────────────────────────────────────────
// MOCK EVENT PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []events.DriverAssignedEvent

	PublishError error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishDriverAssigned(ctx context.Context, event events.DriverAssignedEvent) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// Events returns a copy of the published events.
func (m *MockPublisher) Events() []events.DriverAssignedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.DriverAssignedEvent(nil), m.events...)
}

// Ensure mocks implement interfaces.
var (
	_ repository.DriverRepository     = (*MockDriverRepository)(nil)
	_ repository.OrderRepository      = (*MockOrderRepository)(nil)
	_ repository.RestaurantRepository = (*MockRestaurantRepository)(nil)
	_ repository.SettingRepository    = (*MockSettingRepository)(nil)
	_ redis.DriverLocker              = (*MockDriverLocker)(nil)
	_ events.Publisher                = (*MockPublisher)(nil)
)
