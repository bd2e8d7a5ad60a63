package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
	order []string

	// Counters for verification
	CreateCallCount int32
	DeleteCallCount int32

	// Error injection
	CreateError error
	ListError   error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{trips: make(map[string]*domain.Trip)}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	m.order = append(m.order, trip.ID)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) List(ctx context.Context, deviceID string, page, pageSize int) ([]*domain.Trip, int64, error) {
	if m.ListError != nil {
		return nil, 0, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Newest first.
	var matched []*domain.Trip
	for i := len(m.order) - 1; i >= 0; i-- {
		t := m.trips[m.order[i]]
		if t.DeviceID == deviceID {
			copy := *t
			matched = append(matched, &copy)
		}
	}
	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	for i, tid := range m.order {
		if tid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// LatestTrip returns the most recently stored trip, or nil.
func (m *MockTripRepository) LatestTrip() *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil
	}
	copy := *m.trips[m.order[len(m.order)-1]]
	return &copy
}

// ──────────────────────────────────────────────
// MOCK TARIFF REPOSITORY
// ──────────────────────────────────────────────

// MockTariffRepository is a mock implementation of TariffRepository.
type MockTariffRepository struct {
	mu    sync.RWMutex
	fares map[domain.RegionCode]*domain.RegionFare

	// Counters for verification
	UpsertCallCount int32

	// Error injection
	GetError    error
	UpsertError error
}

// NewMockTariffRepository creates a new mock tariff repository.
func NewMockTariffRepository() *MockTariffRepository {
	return &MockTariffRepository{fares: make(map[domain.RegionCode]*domain.RegionFare)}
}

// AddFare adds a schedule to the mock repository.
func (m *MockTariffRepository) AddFare(fare *domain.RegionFare) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fares[fare.Code] = fare
}

func (m *MockTariffRepository) GetByCode(ctx context.Context, code domain.RegionCode) (*domain.RegionFare, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	fare, ok := m.fares[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *fare
	return &copy, nil
}

func (m *MockTariffRepository) List(ctx context.Context) ([]*domain.RegionFare, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.RegionFare, 0, len(m.fares))
	for _, f := range m.fares {
		copy := *f
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTariffRepository) Upsert(ctx context.Context, fare *domain.RegionFare) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fares[fare.Code] = fare
	return nil
}

func (m *MockTariffRepository) Delete(ctx context.Context, code domain.RegionCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.fares[code]; !ok {
		return repository.ErrNotFound
	}
	delete(m.fares, code)
	return nil
}

// ──────────────────────────────────────────────
// MOCK SNAPSHOT STORE
// ──────────────────────────────────────────────

// MockSnapshotStore is a mock implementation of SnapshotStoreInterface.
type MockSnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]domain.Snapshot

	// Counters for verification
	SetCallCount   int32
	ClearCallCount int32

	// Error injection
	SetError error
	GetError error
}

// NewMockSnapshotStore creates a new mock snapshot store.
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{snaps: make(map[string]domain.Snapshot)}
}

func (m *MockSnapshotStore) Set(ctx context.Context, snap domain.Snapshot) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.DeviceID] = snap
	return nil
}

func (m *MockSnapshotStore) Get(ctx context.Context, deviceID string) (*domain.Snapshot, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[deviceID]
	if !ok {
		return nil, nil
	}
	copy := snap
	return &copy, nil
}

func (m *MockSnapshotStore) Clear(ctx context.Context, deviceID string) error {
	atomic.AddInt32(&m.ClearCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, deviceID)
	return nil
}

// HasSnapshot reports whether a snapshot is stored for the device.
func (m *MockSnapshotStore) HasSnapshot(deviceID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.snaps[deviceID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu   sync.Mutex
	held map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

// Hold pre-acquires a device lock, simulating another instance.
func (m *MockLockStore) Hold(deviceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[deviceID] = true
}

func (m *MockLockStore) AcquireMeterLock(ctx context.Context, deviceID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[deviceID] {
		return false, nil
	}
	m.held[deviceID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseMeterLock(ctx context.Context, deviceID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, deviceID)
	return nil
}

// IsHeld reports whether the device lock is currently held.
func (m *MockLockStore) IsHeld(deviceID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[deviceID]
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder is a mock implementation of meter.Geocoder.
type MockGeocoder struct {
	mu   sync.Mutex
	addr domain.Address

	// Counters for verification
	CallCount int32

	// Error injection
	Error error
}

// NewMockGeocoder creates a mock geocoder resolving to the given address.
func NewMockGeocoder(addr domain.Address) *MockGeocoder {
	return &MockGeocoder{addr: addr}
}

// SetAddress changes the address returned from now on.
func (m *MockGeocoder) SetAddress(addr domain.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addr = addr
}

func (m *MockGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Address, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return domain.Address{}, m.Error
	}
	return m.addr, nil
}
