package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// SnapshotTTL bounds how long a live snapshot outlives its last update.
// A running meter refreshes it every tick; a crashed one goes stale
// instead of lingering forever.
const SnapshotTTL = time.Hour

// SnapshotStore publishes the meter's live state to Redis so
// presentation layers can poll it without touching the engine goroutine.
type SnapshotStore struct {
	client *redis.Client
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func snapshotKey(deviceID string) string {
	return fmt.Sprintf("meter:snapshot:%s", deviceID)
}

// Set stores the latest snapshot for a device.
func (s *SnapshotStore) Set(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(snap.DeviceID), data, SnapshotTTL).Err()
}

// Get retrieves the latest snapshot for a device. Returns nil on a miss.
func (s *SnapshotStore) Get(ctx context.Context, deviceID string) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(deviceID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Clear removes a device's snapshot.
func (s *SnapshotStore) Clear(ctx context.Context, deviceID string) error {
	return s.client.Del(ctx, snapshotKey(deviceID)).Err()
}
