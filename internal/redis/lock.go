package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. The meter lock keeps
// two service instances from running a trip for the same device.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireMeterLock attempts to acquire the active-trip lock for a
// device. Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireMeterLock(ctx context.Context, deviceID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:meter:%s", deviceID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseMeterLock releases the active-trip lock for a device.
func (s *LockStore) ReleaseMeterLock(ctx context.Context, deviceID string) error {
	key := fmt.Sprintf("lock:meter:%s", deviceID)

	return s.client.Del(ctx, key).Err()
}
