package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

func TestClient_ReverseGeocode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lng") == "" {
			t.Error("missing lat/lng query parameters")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country":"KR","province":"Seoul","city":"Seoul","district":"Jung-gu"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	addr, err := client.ReverseGeocode(context.Background(), 37.5665, 126.978)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.Address{Country: "KR", Province: "Seoul", City: "Seoul", District: "Jung-gu"}
	if addr != want {
		t.Errorf("address = %+v, want %+v", addr, want)
	}
}

func TestClient_ReverseGeocode_BadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	if _, err := client.ReverseGeocode(context.Background(), 37.5665, 126.978); err == nil {
		t.Error("expected error on non-200 response")
	}
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[[2]float64]domain.Address
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[[2]float64]domain.Address)}
}

func (f *fakeCache) Get(ctx context.Context, lat, lng float64) (*domain.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if addr, ok := f.entries[[2]float64{lat, lng}]; ok {
		return &addr, nil
	}
	return nil, nil
}

func (f *fakeCache) Set(ctx context.Context, lat, lng float64, addr domain.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[[2]float64{lat, lng}] = addr
	f.sets++
	return nil
}

type countingGeocoder struct {
	addr  domain.Address
	err   error
	calls int
}

func (g *countingGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Address, error) {
	g.calls++
	if g.err != nil {
		return domain.Address{}, g.err
	}
	return g.addr, nil
}

func TestCached_HitSkipsUpstream(t *testing.T) {
	t.Parallel()

	upstream := &countingGeocoder{addr: domain.Address{Province: "Seoul"}}
	cache := newFakeCache()
	cached := NewCached(upstream, cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		addr, err := cached.ReverseGeocode(ctx, 37.5, 127.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if addr.Province != "Seoul" {
			t.Fatalf("province = %s, want Seoul", addr.Province)
		}
	}
	if upstream.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", upstream.calls)
	}
	if cache.sets != 1 {
		t.Errorf("cache writes = %d, want 1", cache.sets)
	}
}

func TestCached_CacheFailureFallsThrough(t *testing.T) {
	t.Parallel()

	upstream := &countingGeocoder{addr: domain.Address{Province: "Busan"}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cached := NewCached(upstream, cache)

	addr, err := cached.ReverseGeocode(context.Background(), 35.1, 129.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Province != "Busan" {
		t.Errorf("province = %s, want Busan", addr.Province)
	}
	if upstream.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", upstream.calls)
	}
}

func TestCached_UpstreamErrorPropagates(t *testing.T) {
	t.Parallel()

	upstream := &countingGeocoder{err: errors.New("geocoder down")}
	cached := NewCached(upstream, newFakeCache())

	if _, err := cached.ReverseGeocode(context.Background(), 35.1, 129.0); err == nil {
		t.Error("expected upstream error to propagate")
	}
}
