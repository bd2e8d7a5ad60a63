package domain

import (
	"testing"
	"time"
)

func threeTierSchedule() *RegionFare {
	day := TariffTier{
		Kind:                TierDay,
		BaseFare:            4800,
		BaseDistanceMeters:  1600,
		PerUnitDistanceFare: 100,
		DistanceUnitMeters:  131,
		PerUnitTimeFare:     100,
		TimeUnitSeconds:     30,
		Windows:             []ClockWindow{{StartMinute: 4 * 60, EndMinute: 22 * 60}},
	}
	night1 := day
	night1.Kind = TierNight1
	night1.BaseFare = 5760
	night1.PerUnitDistanceFare = 120
	night1.PerUnitTimeFare = 120
	night1.Windows = []ClockWindow{
		{StartMinute: 22 * 60, EndMinute: 23 * 60},
		{StartMinute: 2 * 60, EndMinute: 4 * 60},
	}
	night2 := day
	night2.Kind = TierNight2
	night2.BaseFare = 6720
	night2.PerUnitDistanceFare = 140
	night2.PerUnitTimeFare = 140
	night2.Windows = []ClockWindow{{StartMinute: 23 * 60, EndMinute: 2 * 60}}

	return &RegionFare{
		Code:        "seoul",
		DisplayName: "Seoul",
		Tiers: map[TierKind]TariffTier{
			TierDay:    day,
			TierNight1: night1,
			TierNight2: night2,
		},
		SurchargeAmount: 2000,
	}
}

func TestClockWindow_Contains(t *testing.T) {
	t.Parallel()

	plain := ClockWindow{StartMinute: 240, EndMinute: 1320} // 04:00-22:00
	if !plain.Contains(240) {
		t.Error("start minute should be inside a half-open window")
	}
	if plain.Contains(1320) {
		t.Error("end minute should be outside a half-open window")
	}
	if plain.Contains(120) {
		t.Error("02:00 should be outside 04:00-22:00")
	}

	wrap := ClockWindow{StartMinute: 1380, EndMinute: 120} // 23:00-02:00
	for _, minute := range []int{1380, 1439, 0, 60, 119} {
		if !wrap.Contains(minute) {
			t.Errorf("minute %d should be inside the wrapping window", minute)
		}
	}
	for _, minute := range []int{120, 720, 1379} {
		if wrap.Contains(minute) {
			t.Errorf("minute %d should be outside the wrapping window", minute)
		}
	}
}

func TestRegionFare_TierAt(t *testing.T) {
	t.Parallel()

	r := threeTierSchedule()
	cases := []struct {
		hour, minute int
		want         TierKind
	}{
		{12, 0, TierDay},
		{4, 0, TierDay},
		{21, 59, TierDay},
		{22, 0, TierNight1},
		{22, 59, TierNight1},
		{2, 0, TierNight1},
		{3, 59, TierNight1},
		{23, 0, TierNight2},
		{0, 30, TierNight2},
		{1, 59, TierNight2},
	}
	for _, c := range cases {
		at := time.Date(2025, 3, 10, c.hour, c.minute, 0, 0, time.UTC)
		if got := r.TierAt(at).Kind; got != c.want {
			t.Errorf("TierAt(%02d:%02d) = %s, want %s", c.hour, c.minute, got, c.want)
		}
	}
}

func TestRegionFare_Validate_OK(t *testing.T) {
	t.Parallel()

	if err := threeTierSchedule().Validate(); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}

func TestRegionFare_Validate_MissingTier(t *testing.T) {
	t.Parallel()

	r := threeTierSchedule()
	delete(r.Tiers, TierNight2)
	if err := r.Validate(); err == nil {
		t.Error("schedule without a NIGHT2 tier should be invalid")
	}
}

func TestRegionFare_Validate_Gap(t *testing.T) {
	t.Parallel()

	r := threeTierSchedule()
	day := r.Tiers[TierDay]
	day.Windows = []ClockWindow{{StartMinute: 5 * 60, EndMinute: 22 * 60}} // 04:00-05:00 uncovered
	r.Tiers[TierDay] = day
	if err := r.Validate(); err == nil {
		t.Error("schedule with an uncovered hour should be invalid")
	}
}

func TestRegionFare_Validate_Overlap(t *testing.T) {
	t.Parallel()

	r := threeTierSchedule()
	day := r.Tiers[TierDay]
	day.Windows = []ClockWindow{{StartMinute: 4 * 60, EndMinute: 22*60 + 30}} // overlaps NIGHT1
	r.Tiers[TierDay] = day
	if err := r.Validate(); err == nil {
		t.Error("schedule with overlapping windows should be invalid")
	}
}

func TestRegionFare_Validate_NonPositiveUnits(t *testing.T) {
	t.Parallel()

	r := threeTierSchedule()
	day := r.Tiers[TierDay]
	day.DistanceUnitMeters = 0
	r.Tiers[TierDay] = day
	if err := r.Validate(); err == nil {
		t.Error("zero distance unit should be invalid")
	}

	r = threeTierSchedule()
	night := r.Tiers[TierNight1]
	night.TimeUnitSeconds = -30
	r.Tiers[TierNight1] = night
	if err := r.Validate(); err == nil {
		t.Error("negative time unit should be invalid")
	}
}

func TestRegionFare_Validate_EmptyCode(t *testing.T) {
	t.Parallel()

	r := threeTierSchedule()
	r.Code = ""
	if err := r.Validate(); err == nil {
		t.Error("empty region code should be invalid")
	}
}
