// Package tariff holds the canonical RegionFare schedules: built-in seed
// data, validation, and the adapter for the legacy single-tier
// configuration schema.
package tariff

import (
	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// DefaultRegion is the built-in fallback schedule code. Trip start never
// fails on a missing tariff: resolution falls back to this schedule.
const DefaultRegion domain.RegionCode = "seoul"

// Standard tier windows: Day 04:00-22:00, Night1 22:00-23:00 and
// 02:00-04:00, Night2 23:00-02:00 (wrapping midnight). Together they
// cover the full day with no overlap.
var (
	dayWindows = []domain.ClockWindow{
		{StartMinute: 4 * 60, EndMinute: 22 * 60},
	}
	night1Windows = []domain.ClockWindow{
		{StartMinute: 22 * 60, EndMinute: 23 * 60},
		{StartMinute: 2 * 60, EndMinute: 4 * 60},
	}
	night2Windows = []domain.ClockWindow{
		{StartMinute: 23 * 60, EndMinute: 2 * 60},
	}
)

// Seed returns the built-in region schedules loaded into the store on
// first boot and used as the resolution fallback of last resort.
func Seed() []*domain.RegionFare {
	return []*domain.RegionFare{
		build("seoul", "Seoul", 4800, 1600, 100, 131, 100, 30, 2000),
		build("gyeonggi", "Gyeonggi-do", 4800, 1600, 100, 121, 100, 28, 2400),
		build("incheon", "Incheon", 4800, 1600, 100, 125, 100, 30, 2200),
		build("busan", "Busan", 4800, 2000, 100, 132, 100, 33, 2000),
	}
}

// SeedByCode returns the seed schedule for the code, or nil.
func SeedByCode(code domain.RegionCode) *domain.RegionFare {
	for _, r := range Seed() {
		if r.Code == code {
			return r
		}
	}
	return nil
}

// build assembles a three-tier schedule from day-tier figures. Night1
// charges 20% over day, Night2 40%, on the base fare and both unit
// fares, matching how the regional tables are published.
func build(code domain.RegionCode, name string, baseFare int64, baseDist float64, distFare int64, distUnit float64, timeFare int64, timeUnit float64, surcharge int64) *domain.RegionFare {
	day := domain.TariffTier{
		Kind:                domain.TierDay,
		BaseFare:            baseFare,
		BaseDistanceMeters:  baseDist,
		PerUnitDistanceFare: distFare,
		DistanceUnitMeters:  distUnit,
		PerUnitTimeFare:     timeFare,
		TimeUnitSeconds:     timeUnit,
		Windows:             dayWindows,
	}
	return &domain.RegionFare{
		Code:        code,
		DisplayName: name,
		Tiers: map[domain.TierKind]domain.TariffTier{
			domain.TierDay:    day,
			domain.TierNight1: scaleTier(day, domain.TierNight1, 20, night1Windows),
			domain.TierNight2: scaleTier(day, domain.TierNight2, 40, night2Windows),
		},
		SurchargeAmount: surcharge,
	}
}

// scaleTier derives a night tier by applying a percentage uplift to the
// day tier's fares. Units and base distance stay the same.
func scaleTier(day domain.TariffTier, kind domain.TierKind, upliftPct int64, windows []domain.ClockWindow) domain.TariffTier {
	scale := func(v int64) int64 { return v + v*upliftPct/100 }
	return domain.TariffTier{
		Kind:                kind,
		BaseFare:            scale(day.BaseFare),
		BaseDistanceMeters:  day.BaseDistanceMeters,
		PerUnitDistanceFare: scale(day.PerUnitDistanceFare),
		DistanceUnitMeters:  day.DistanceUnitMeters,
		PerUnitTimeFare:     scale(day.PerUnitTimeFare),
		TimeUnitSeconds:     day.TimeUnitSeconds,
		Windows:             windows,
	}
}
