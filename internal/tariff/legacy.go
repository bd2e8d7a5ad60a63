package tariff

import (
	"fmt"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// LegacyRegionFare is the older configuration schema: a single rate
// table plus percentage night-surcharge rates instead of explicit night
// tiers. It is accepted at the configuration boundary only; FromLegacy
// converts it to the canonical three-tier shape and nothing downstream
// ever sees it.
type LegacyRegionFare struct {
	Code                string  `json:"code"`
	DisplayName         string  `json:"display_name"`
	BaseFare            int64   `json:"base_fare"`
	BaseDistanceMeters  float64 `json:"base_distance_meters"`
	PerUnitDistanceFare int64   `json:"per_unit_distance_fare"`
	DistanceUnitMeters  float64 `json:"distance_unit_meters"`
	PerUnitTimeFare     int64   `json:"per_unit_time_fare"`
	TimeUnitSeconds     float64 `json:"time_unit_seconds"`
	NightSurchargePct   int64   `json:"night_surcharge_pct"`
	DeepNightSurchargePct int64 `json:"deep_night_surcharge_pct"`
	RegionSurcharge     int64   `json:"region_surcharge"`
}

// FromLegacy converts a legacy table into a canonical schedule, deriving
// the night tiers from the surcharge rates over the standard tier
// windows.
func FromLegacy(l LegacyRegionFare) (*domain.RegionFare, error) {
	if l.Code == "" {
		return nil, fmt.Errorf("legacy tariff: empty code")
	}
	if l.DeepNightSurchargePct < l.NightSurchargePct {
		return nil, fmt.Errorf("legacy tariff %s: deep night rate below night rate", l.Code)
	}

	day := domain.TariffTier{
		Kind:                domain.TierDay,
		BaseFare:            l.BaseFare,
		BaseDistanceMeters:  l.BaseDistanceMeters,
		PerUnitDistanceFare: l.PerUnitDistanceFare,
		DistanceUnitMeters:  l.DistanceUnitMeters,
		PerUnitTimeFare:     l.PerUnitTimeFare,
		TimeUnitSeconds:     l.TimeUnitSeconds,
		Windows:             dayWindows,
	}

	r := &domain.RegionFare{
		Code:        domain.RegionCode(l.Code),
		DisplayName: l.DisplayName,
		Tiers: map[domain.TierKind]domain.TariffTier{
			domain.TierDay:    day,
			domain.TierNight1: scaleTier(day, domain.TierNight1, l.NightSurchargePct, night1Windows),
			domain.TierNight2: scaleTier(day, domain.TierNight2, l.DeepNightSurchargePct, night2Windows),
		},
		SurchargeAmount: l.RegionSurcharge,
		IsUserCreated:   true,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
