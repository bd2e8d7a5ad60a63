package tariff

import (
	"testing"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

func validLegacy() LegacyRegionFare {
	return LegacyRegionFare{
		Code:                  "daegu",
		DisplayName:           "Daegu",
		BaseFare:              4000,
		BaseDistanceMeters:    2000,
		PerUnitDistanceFare:   100,
		DistanceUnitMeters:    130,
		PerUnitTimeFare:       100,
		TimeUnitSeconds:       33,
		NightSurchargePct:     20,
		DeepNightSurchargePct: 40,
		RegionSurcharge:       1500,
	}
}

func TestFromLegacy_Converts(t *testing.T) {
	t.Parallel()

	fare, err := FromLegacy(validLegacy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := fare.Validate(); err != nil {
		t.Fatalf("converted schedule invalid: %v", err)
	}
	if fare.Code != domain.RegionCode("daegu") {
		t.Errorf("code = %s, want daegu", fare.Code)
	}
	if !fare.IsUserCreated {
		t.Error("legacy conversion should be flagged user-created")
	}
	if fare.SurchargeAmount != 1500 {
		t.Errorf("surcharge = %d, want 1500", fare.SurchargeAmount)
	}

	day := fare.DayTier()
	if day.BaseFare != 4000 || day.BaseDistanceMeters != 2000 {
		t.Errorf("day tier = %+v, want base 4000 over 2000m", day)
	}

	night1 := fare.Tiers[domain.TierNight1]
	if night1.BaseFare != 4800 || night1.PerUnitDistanceFare != 120 {
		t.Errorf("NIGHT1 = base %d, distance %d; want 4800, 120", night1.BaseFare, night1.PerUnitDistanceFare)
	}
	night2 := fare.Tiers[domain.TierNight2]
	if night2.BaseFare != 5600 || night2.PerUnitTimeFare != 140 {
		t.Errorf("NIGHT2 = base %d, time %d; want 5600, 140", night2.BaseFare, night2.PerUnitTimeFare)
	}
}

func TestFromLegacy_EmptyCode(t *testing.T) {
	t.Parallel()

	l := validLegacy()
	l.Code = ""
	if _, err := FromLegacy(l); err == nil {
		t.Error("empty code should be rejected")
	}
}

func TestFromLegacy_DeepNightBelowNight(t *testing.T) {
	t.Parallel()

	l := validLegacy()
	l.NightSurchargePct = 40
	l.DeepNightSurchargePct = 20
	if _, err := FromLegacy(l); err == nil {
		t.Error("deep night rate below night rate should be rejected")
	}
}

func TestFromLegacy_ZeroSurchargeRates(t *testing.T) {
	t.Parallel()

	l := validLegacy()
	l.NightSurchargePct = 0
	l.DeepNightSurchargePct = 0
	fare, err := FromLegacy(l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := fare.DayTier()
	night2 := fare.Tiers[domain.TierNight2]
	if night2.BaseFare != day.BaseFare || night2.PerUnitDistanceFare != day.PerUnitDistanceFare {
		t.Error("zero uplift should yield night tiers matching the day tier")
	}
}

func TestFromLegacy_InvalidUnits(t *testing.T) {
	t.Parallel()

	l := validLegacy()
	l.DistanceUnitMeters = 0
	if _, err := FromLegacy(l); err == nil {
		t.Error("zero distance unit should be rejected")
	}
}
