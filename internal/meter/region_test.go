package meter

import (
	"context"
	"errors"
	"testing"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

func TestCodeForAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		addr domain.Address
		want domain.RegionCode
	}{
		{domain.Address{Province: "Seoul", City: "Seoul"}, "seoul"},
		{domain.Address{Province: "Seoul Special City"}, "seoul"},
		{domain.Address{Province: "Gyeonggi-do", City: "Seongnam-si"}, "gyeonggi"},
		{domain.Address{Province: "Incheon Metropolitan City"}, "incheon"},
		{domain.Address{Province: "Busan", City: "Busan"}, "busan"},
		// Unlisted provinces keep their normalized name so user-created
		// schedules can match them.
		{domain.Address{Province: "Jeju-do"}, "jeju-do"},
		{domain.Address{}, domain.RegionUnknown},
	}
	for _, c := range cases {
		if got := CodeForAddress(c.addr); got != c.want {
			t.Errorf("CodeForAddress(%+v) = %s, want %s", c.addr, got, c.want)
		}
	}
}

func TestHasRegionChanged(t *testing.T) {
	t.Parallel()

	if HasRegionChanged("seoul", "seoul") {
		t.Error("same region should not count as a change")
	}
	if !HasRegionChanged("seoul", "gyeonggi") {
		t.Error("different region should count as a change")
	}
	if HasRegionChanged("seoul", domain.RegionUnknown) {
		t.Error("unknown should never count as a change")
	}
	if HasRegionChanged("seoul", "") {
		t.Error("empty code should never count as a change")
	}
}

func TestRegionResolver_GeocoderFailure(t *testing.T) {
	t.Parallel()

	resolver := NewRegionResolver(&stubGeocoder{err: errors.New("down")})
	code, addr := resolver.Resolve(context.Background(), 37.5, 127.0)
	if code != domain.RegionUnknown {
		t.Errorf("code = %s, want unknown on geocoder failure", code)
	}
	if addr != (domain.Address{}) {
		t.Errorf("address = %+v, want empty", addr)
	}
}

func TestRegionResolver_NilGeocoder(t *testing.T) {
	t.Parallel()

	resolver := NewRegionResolver(nil)
	if code, _ := resolver.Resolve(context.Background(), 37.5, 127.0); code != domain.RegionUnknown {
		t.Errorf("code = %s, want unknown without a geocoder", code)
	}
}

func TestDisplayRegion(t *testing.T) {
	t.Parallel()

	addr := domain.Address{Province: "Seoul", City: "Seoul", District: "Jung-gu"}
	if got := DisplayRegion(addr); got != "Seoul Seoul Jung-gu" {
		t.Errorf("display = %q", got)
	}
	if got := DisplayRegion(domain.Address{Province: "Gyeonggi-do"}); got != "Gyeonggi-do" {
		t.Errorf("display = %q", got)
	}
	if got := DisplayRegion(domain.Address{}); got != "" {
		t.Errorf("display = %q, want empty", got)
	}
}
