package meter

import (
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// FareConfig holds the calculator thresholds.
type FareConfig struct {
	// LowSpeedThresholdMps separates the moving regime from the
	// waiting regime. Time fare accrues only below it.
	LowSpeedThresholdMps float64
}

// FareCalculator turns cumulative distance and waiting time into a
// running FareBreakdown under the active tariff schedule.
//
// Distance and time fares are recomputed from cumulative totals within
// the current tier segment rather than accumulated from per-tick deltas,
// so rounding never drifts. When the active tier changes (a day/night
// boundary, or a region switch swapping schedules) the segment's fares
// are folded into carried totals and a fresh segment begins, which keeps
// every component monotonic across the boundary.
//
// The tier in effect at trip start supplies the base fare and the base
// distance for the whole trip.
type FareCalculator struct {
	active      *domain.RegionFare
	startRegion domain.RegionCode
	curRegion   domain.RegionCode
	surcharge   int64
	lowSpeed    float64

	baseTier domain.TariffTier
	curKind  domain.TierKind

	cumWaitSec    float64
	segStartExtra float64
	segStartWait  float64
	carriedDist   int64
	carriedTime   int64
	carriedNight  int64

	surchargeApplied bool

	bd domain.FareBreakdown
}

// NewFareCalculator locks onto the schedule in effect at trip start.
// homeSurcharge is the home region's flat amount applied once if the
// trip ever leaves its starting region.
func NewFareCalculator(schedule *domain.RegionFare, startRegion domain.RegionCode, homeSurcharge int64, cfg FareConfig, start time.Time) *FareCalculator {
	baseTier := schedule.TierAt(start)
	f := &FareCalculator{
		active:      schedule,
		startRegion: startRegion,
		curRegion:   startRegion,
		surcharge:   homeSurcharge,
		lowSpeed:    cfg.LowSpeedThresholdMps,
		baseTier:    baseTier,
		curKind:     baseTier.Kind,
	}
	f.bd.BaseFare = baseTier.BaseFare
	f.bd.TotalFare = baseTier.BaseFare
	return f
}

// Tick advances the fare by one observation. elapsed is the time since
// the previous tick, cumDistance the accumulator's cumulative distance,
// speed the current speed (domain.SpeedUnavailable when unknown) and
// region the most recently resolved region code. The returned breakdown
// is non-decreasing in every component tick-over-tick.
func (f *FareCalculator) Tick(now time.Time, elapsed time.Duration, cumDistance, speed float64, region domain.RegionCode) domain.FareBreakdown {
	if speed < f.lowSpeed {
		// Unavailable speed counts as waiting: a standing taxi with a
		// cold GPS still runs its clock.
		if sec := elapsed.Seconds(); sec > 0 {
			f.cumWaitSec += sec
		}
	}

	if HasRegionChanged(f.curRegion, region) {
		if !f.surchargeApplied && HasRegionChanged(f.startRegion, region) {
			f.bd.RegionSurcharge = f.surcharge
			f.surchargeApplied = true
		}
		f.curRegion = region
	}

	tier := f.active.TierAt(now)
	if tier.Kind != f.curKind {
		f.foldSegment(cumDistance)
		f.curKind = tier.Kind
	}

	day := f.active.DayTier()
	segExtra, segWait := f.segment(cumDistance)

	dayDist := unitFare(segExtra, day.DistanceUnitMeters, day.PerUnitDistanceFare)
	dayTime := unitFare(segWait, day.TimeUnitSeconds, day.PerUnitTimeFare)

	var nightDelta int64
	if tier.Kind != domain.TierDay {
		actual := unitFare(segExtra, tier.DistanceUnitMeters, tier.PerUnitDistanceFare) +
			unitFare(segWait, tier.TimeUnitSeconds, tier.PerUnitTimeFare)
		nightDelta = actual - (dayDist + dayTime)
		if nightDelta < 0 {
			nightDelta = 0
		}
	}

	f.bd.DistanceFare = maxInt64(f.bd.DistanceFare, f.carriedDist+dayDist)
	f.bd.TimeFare = maxInt64(f.bd.TimeFare, f.carriedTime+dayTime)
	f.bd.NightSurcharge = maxInt64(f.bd.NightSurcharge, f.carriedNight+nightDelta)

	total := f.bd.BaseFare + f.bd.DistanceFare + f.bd.TimeFare + f.bd.RegionSurcharge + f.bd.NightSurcharge
	f.bd.TotalFare = maxInt64(f.bd.TotalFare, total)
	return f.bd
}

// SwitchSchedule swaps the active schedule after a region change. The
// running segment is folded under the old schedule first; base fare and
// base distance stay locked to the starting tier.
func (f *FareCalculator) SwitchSchedule(schedule *domain.RegionFare, now time.Time, cumDistance float64) {
	f.foldSegment(cumDistance)
	f.active = schedule
	f.curKind = schedule.TierAt(now).Kind
}

// Breakdown returns the current fare breakdown.
func (f *FareCalculator) Breakdown() domain.FareBreakdown {
	return f.bd
}

// WaitingSeconds returns the cumulative time spent below the low-speed
// threshold.
func (f *FareCalculator) WaitingSeconds() float64 {
	return f.cumWaitSec
}

// segment returns the distance and waiting time accrued inside the
// current tier segment.
func (f *FareCalculator) segment(cumDistance float64) (segExtra, segWait float64) {
	extra := cumDistance - f.baseTier.BaseDistanceMeters
	if extra < 0 {
		extra = 0
	}
	return extra - f.segStartExtra, f.cumWaitSec - f.segStartWait
}

// foldSegment freezes the current segment's fares under the tier that
// was active and starts a new segment at the current cumulative totals.
func (f *FareCalculator) foldSegment(cumDistance float64) {
	tier, ok := f.active.Tiers[f.curKind]
	if !ok {
		tier = f.active.DayTier()
	}
	day := f.active.DayTier()
	segExtra, segWait := f.segment(cumDistance)

	dayDist := unitFare(segExtra, day.DistanceUnitMeters, day.PerUnitDistanceFare)
	dayTime := unitFare(segWait, day.TimeUnitSeconds, day.PerUnitTimeFare)
	f.carriedDist += dayDist
	f.carriedTime += dayTime

	if tier.Kind != domain.TierDay {
		actual := unitFare(segExtra, tier.DistanceUnitMeters, tier.PerUnitDistanceFare) +
			unitFare(segWait, tier.TimeUnitSeconds, tier.PerUnitTimeFare)
		if delta := actual - (dayDist + dayTime); delta > 0 {
			f.carriedNight += delta
		}
	}

	f.segStartExtra += segExtra
	f.segStartWait += segWait
}

func unitFare(quantity, unit float64, rate int64) int64 {
	if quantity <= 0 || unit <= 0 {
		return 0
	}
	return int64(quantity/unit) * rate
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
