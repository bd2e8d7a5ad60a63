package tariff

import (
	"testing"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

func TestSeed_AllSchedulesValid(t *testing.T) {
	t.Parallel()

	seeds := Seed()
	if len(seeds) == 0 {
		t.Fatal("expected built-in schedules")
	}
	for _, r := range seeds {
		if err := r.Validate(); err != nil {
			t.Errorf("seed %s invalid: %v", r.Code, err)
		}
		if r.IsUserCreated {
			t.Errorf("seed %s should not be flagged user-created", r.Code)
		}
	}
}

func TestSeed_SeoulDayTier(t *testing.T) {
	t.Parallel()

	seoul := SeedByCode("seoul")
	if seoul == nil {
		t.Fatal("seoul seed missing")
	}
	day := seoul.DayTier()
	if day.BaseFare != 4800 {
		t.Errorf("base fare = %d, want 4800", day.BaseFare)
	}
	if day.BaseDistanceMeters != 1600 {
		t.Errorf("base distance = %v, want 1600", day.BaseDistanceMeters)
	}
	if day.PerUnitDistanceFare != 100 || day.DistanceUnitMeters != 131 {
		t.Errorf("distance rate = %d/%vm, want 100/131m", day.PerUnitDistanceFare, day.DistanceUnitMeters)
	}
	if day.PerUnitTimeFare != 100 || day.TimeUnitSeconds != 30 {
		t.Errorf("time rate = %d/%vs, want 100/30s", day.PerUnitTimeFare, day.TimeUnitSeconds)
	}
	if seoul.SurchargeAmount != 2000 {
		t.Errorf("surcharge = %d, want 2000", seoul.SurchargeAmount)
	}
}

func TestSeed_NightUplift(t *testing.T) {
	t.Parallel()

	seoul := SeedByCode("seoul")
	if seoul == nil {
		t.Fatal("seoul seed missing")
	}

	night1 := seoul.Tiers[domain.TierNight1]
	if night1.BaseFare != 5760 {
		t.Errorf("NIGHT1 base fare = %d, want 5760 (20%% over day)", night1.BaseFare)
	}
	if night1.PerUnitDistanceFare != 120 {
		t.Errorf("NIGHT1 distance fare = %d, want 120", night1.PerUnitDistanceFare)
	}

	night2 := seoul.Tiers[domain.TierNight2]
	if night2.BaseFare != 6720 {
		t.Errorf("NIGHT2 base fare = %d, want 6720 (40%% over day)", night2.BaseFare)
	}
	if night2.PerUnitTimeFare != 140 {
		t.Errorf("NIGHT2 time fare = %d, want 140", night2.PerUnitTimeFare)
	}

	// Units never scale, only fares.
	day := seoul.DayTier()
	if night1.DistanceUnitMeters != day.DistanceUnitMeters || night2.TimeUnitSeconds != day.TimeUnitSeconds {
		t.Error("night tiers must keep the day tier's units")
	}
}

func TestSeed_TierBoundaries(t *testing.T) {
	t.Parallel()

	seoul := SeedByCode("seoul")
	cases := []struct {
		hour int
		want domain.TierKind
	}{
		{12, domain.TierDay},
		{22, domain.TierNight1},
		{23, domain.TierNight2},
		{1, domain.TierNight2},
		{3, domain.TierNight1},
		{5, domain.TierDay},
	}
	for _, c := range cases {
		at := time.Date(2025, 6, 1, c.hour, 0, 0, 0, time.UTC)
		if got := seoul.TierAt(at).Kind; got != c.want {
			t.Errorf("TierAt(%02d:00) = %s, want %s", c.hour, got, c.want)
		}
	}
}

func TestSeedByCode_Unknown(t *testing.T) {
	t.Parallel()

	if SeedByCode("jeju") != nil {
		t.Error("expected nil for a region with no seed")
	}
	if SeedByCode(DefaultRegion) == nil {
		t.Error("default region must always have a seed")
	}
}
