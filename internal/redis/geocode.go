package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// GeocodeCacheTTL is how long a reverse-geocode result stays cached.
// Administrative boundaries do not move; the TTL only bounds memory.
const GeocodeCacheTTL = 24 * time.Hour

// GeocodeCache caches reverse-geocode results keyed by coordinates
// rounded to ~100 m. At 1 Hz fix cadence a moving taxi re-resolves the
// same cell many times in a row.
type GeocodeCache struct {
	client *redis.Client
}

// NewGeocodeCache creates a new GeocodeCache.
func NewGeocodeCache(client *redis.Client) *GeocodeCache {
	return &GeocodeCache{client: client}
}

func geocodeKey(lat, lng float64) string {
	return fmt.Sprintf("geocode:%.3f:%.3f", lat, lng)
}

// Get retrieves a cached address. Returns nil on a miss.
func (c *GeocodeCache) Get(ctx context.Context, lat, lng float64) (*domain.Address, error) {
	data, err := c.client.Get(ctx, geocodeKey(lat, lng)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var addr domain.Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// Set stores an address for a coordinate cell.
func (c *GeocodeCache) Set(ctx context.Context, lat, lng float64, addr domain.Address) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, geocodeKey(lat, lng), data, GeocodeCacheTTL).Err()
}
