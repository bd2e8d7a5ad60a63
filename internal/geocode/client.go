// Package geocode provides the reverse-geocoding collaborator used by
// the region resolver, plus a Redis-backed caching decorator.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/meter"
	internalRedis "github.com/devbada/hogumeter-sub001/internal/redis"
)

// Client is an HTTP reverse-geocoding client. The endpoint is expected
// to answer GET {base}?lat=..&lng=.. with the administrative components
// as JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a geocoding client for the given endpoint.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Country  string `json:"country"`
	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district"`
}

// ReverseGeocode resolves a coordinate to administrative components.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Address, error) {
	u := fmt.Sprintf("%s?lat=%s&lng=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lng)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Address{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Address{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Address{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Address{}, err
	}

	return domain.Address{
		Country:  body.Country,
		Province: body.Province,
		City:     body.City,
		District: body.District,
	}, nil
}

// Cached decorates a geocoder with the Redis geocode cache. Cache
// failures fall through to the underlying geocoder.
type Cached struct {
	next  meter.Geocoder
	cache internalRedis.GeocodeCacheInterface
}

// NewCached wraps a geocoder with the cache.
func NewCached(next meter.Geocoder, cache internalRedis.GeocodeCacheInterface) *Cached {
	return &Cached{next: next, cache: cache}
}

// ReverseGeocode resolves through the cache first.
func (c *Cached) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Address, error) {
	if addr, err := c.cache.Get(ctx, lat, lng); err == nil && addr != nil {
		return *addr, nil
	}

	addr, err := c.next.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return domain.Address{}, err
	}

	_ = c.cache.Set(ctx, lat, lng, addr)
	return addr, nil
}
