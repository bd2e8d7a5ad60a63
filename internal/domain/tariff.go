package domain

import (
	"fmt"
	"time"
)

// RegionCode identifies which tariff schedule applies. It is distinct
// from the human-readable display region.
type RegionCode string

// RegionUnknown is the sentinel returned when geocoding is unavailable.
// Fare calculation falls back to the trip's starting schedule for it.
const RegionUnknown RegionCode = "unknown"

// TierKind identifies one of the three time-of-day tariff tiers.
type TierKind string

const (
	TierDay    TierKind = "DAY"
	TierNight1 TierKind = "NIGHT1"
	TierNight2 TierKind = "NIGHT2"
)

// minutesPerDay is the size of the clock-window space.
const minutesPerDay = 24 * 60

// ClockWindow is a half-open [Start, End) interval of minutes from local
// midnight. A window with Start > End wraps across midnight.
type ClockWindow struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Contains reports whether the given minute-of-day falls inside the window.
func (w ClockWindow) Contains(minute int) bool {
	if w.StartMinute <= w.EndMinute {
		return minute >= w.StartMinute && minute < w.EndMinute
	}
	// Wraps midnight.
	return minute >= w.StartMinute || minute < w.EndMinute
}

// TariffTier is the fare-rate table active during its clock windows.
type TariffTier struct {
	Kind                TierKind      `json:"kind"`
	BaseFare            int64         `json:"base_fare"`
	BaseDistanceMeters  float64       `json:"base_distance_meters"`
	PerUnitDistanceFare int64         `json:"per_unit_distance_fare"`
	DistanceUnitMeters  float64       `json:"distance_unit_meters"`
	PerUnitTimeFare     int64         `json:"per_unit_time_fare"`
	TimeUnitSeconds     float64       `json:"time_unit_seconds"`
	Windows             []ClockWindow `json:"windows"`
}

// RegionFare is the canonical per-region tariff schedule: exactly three
// tiers whose clock windows cover the full day with no overlap, plus the
// flat surcharge applied once when a trip leaves its starting region.
type RegionFare struct {
	Code            RegionCode
	DisplayName     string
	Tiers           map[TierKind]TariffTier
	SurchargeAmount int64
	IsUserCreated   bool
}

// TierAt returns the tier whose clock window contains the wall-clock
// time of t. Schedules are validated for full coverage, so a miss only
// happens on an invalid schedule; Day is returned as the safe fallback.
func (r *RegionFare) TierAt(t time.Time) TariffTier {
	minute := t.Hour()*60 + t.Minute()
	for _, kind := range []TierKind{TierNight2, TierNight1, TierDay} {
		tier, ok := r.Tiers[kind]
		if !ok {
			continue
		}
		for _, w := range tier.Windows {
			if w.Contains(minute) {
				return tier
			}
		}
	}
	return r.Tiers[TierDay]
}

// DayTier returns the Day tier, the reference rate for the night
// surcharge computation.
func (r *RegionFare) DayTier() TariffTier {
	return r.Tiers[TierDay]
}

// Validate checks the schedule invariants: all three tiers present with
// positive units, and every minute of the day covered by exactly one tier.
func (r *RegionFare) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("region fare: empty code")
	}
	for _, kind := range []TierKind{TierDay, TierNight1, TierNight2} {
		tier, ok := r.Tiers[kind]
		if !ok {
			return fmt.Errorf("region fare %s: missing tier %s", r.Code, kind)
		}
		if tier.DistanceUnitMeters <= 0 || tier.TimeUnitSeconds <= 0 {
			return fmt.Errorf("region fare %s: tier %s has non-positive units", r.Code, kind)
		}
		if tier.BaseFare < 0 || tier.PerUnitDistanceFare < 0 || tier.PerUnitTimeFare < 0 {
			return fmt.Errorf("region fare %s: tier %s has negative fares", r.Code, kind)
		}
	}

	var cover [minutesPerDay]int
	for _, tier := range r.Tiers {
		for _, w := range tier.Windows {
			if w.StartMinute < 0 || w.StartMinute >= minutesPerDay ||
				w.EndMinute < 0 || w.EndMinute > minutesPerDay {
				return fmt.Errorf("region fare %s: window out of range", r.Code)
			}
			for m := 0; m < minutesPerDay; m++ {
				if w.Contains(m) {
					cover[m]++
				}
			}
		}
	}
	for m, n := range cover {
		if n == 0 {
			return fmt.Errorf("region fare %s: minute %d uncovered", r.Code, m)
		}
		if n > 1 {
			return fmt.Errorf("region fare %s: minute %d covered by %d windows", r.Code, m, n)
		}
	}
	return nil
}
