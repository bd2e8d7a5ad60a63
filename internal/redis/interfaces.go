package redis

import (
	"context"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// SnapshotStoreInterface defines the interface for live snapshot
// publishing.
type SnapshotStoreInterface interface {
	Set(ctx context.Context, snap domain.Snapshot) error
	Get(ctx context.Context, deviceID string) (*domain.Snapshot, error)
	Clear(ctx context.Context, deviceID string) error
}

// GeocodeCacheInterface defines the interface for the reverse-geocode
// cache.
type GeocodeCacheInterface interface {
	Get(ctx context.Context, lat, lng float64) (*domain.Address, error)
	Set(ctx context.Context, lat, lng float64, addr domain.Address) error
}

// LockStoreInterface defines the interface for the active-trip lock.
type LockStoreInterface interface {
	AcquireMeterLock(ctx context.Context, deviceID string, ttl time.Duration) (bool, error)
	ReleaseMeterLock(ctx context.Context, deviceID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ SnapshotStoreInterface = (*SnapshotStore)(nil)
	_ GeocodeCacheInterface  = (*GeocodeCache)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
