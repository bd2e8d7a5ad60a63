package meter

import (
	"context"
	"strings"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// Geocoder is the external reverse-geocoding collaborator.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (domain.Address, error)
}

// metroRegions maps metropolitan-level administrative names to fare
// region codes. Expressway/bridge exceptions are a display concern and
// deliberately absent here.
var metroRegions = map[string]domain.RegionCode{
	"seoul":       "seoul",
	"incheon":     "incheon",
	"gyeonggi":    "gyeonggi",
	"gyeonggi-do": "gyeonggi",
	"busan":       "busan",
	"daegu":       "daegu",
	"daejeon":     "daejeon",
	"gwangju":     "gwangju",
	"ulsan":       "ulsan",
	"sejong":      "sejong",
}

// RegionResolver maps a geographic fix to a fare-region code. Geocoding
// failures degrade to domain.RegionUnknown; they never interrupt fare
// calculation.
type RegionResolver struct {
	geocoder Geocoder
}

// NewRegionResolver creates a resolver backed by the given geocoder.
func NewRegionResolver(geocoder Geocoder) *RegionResolver {
	return &RegionResolver{geocoder: geocoder}
}

// Resolve maps a fix to its fare-region code, together with the address
// used for display formatting. Returns RegionUnknown when geocoding is
// unavailable or yields nothing usable.
func (r *RegionResolver) Resolve(ctx context.Context, lat, lng float64) (domain.RegionCode, domain.Address) {
	if r.geocoder == nil {
		return domain.RegionUnknown, domain.Address{}
	}
	addr, err := r.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		return domain.RegionUnknown, domain.Address{}
	}
	return CodeForAddress(addr), addr
}

// CodeForAddress derives the fare-region code from administrative
// components using the static metro table. Unmatched provinces fall back
// to their normalized name so user-created schedules can still key on
// them.
func CodeForAddress(addr domain.Address) domain.RegionCode {
	for _, name := range []string{addr.City, addr.Province} {
		key := normalizeAdminName(name)
		if key == "" {
			continue
		}
		if code, ok := metroRegions[key]; ok {
			return code
		}
	}
	if key := normalizeAdminName(addr.Province); key != "" {
		return domain.RegionCode(key)
	}
	return domain.RegionUnknown
}

// HasRegionChanged reports whether the current code represents a real
// region switch from the previous one. Unknown never counts as a switch.
func HasRegionChanged(previous, current domain.RegionCode) bool {
	if current == domain.RegionUnknown || current == "" {
		return false
	}
	return previous != current
}

// DisplayRegion formats address components into the human-readable
// region string carried on the trip artifact.
func DisplayRegion(addr domain.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{addr.Province, addr.City, addr.District} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func normalizeAdminName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, " metropolitan city")
	name = strings.TrimSuffix(name, " special city")
	name = strings.TrimSuffix(name, "-si")
	return name
}
