package meter

import (
	"testing"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/tariff"
)

func testFareConfig() FareConfig {
	return FareConfig{LowSpeedThresholdMps: 4.17}
}

func seoulSchedule(t *testing.T) *domain.RegionFare {
	t.Helper()
	r := tariff.SeedByCode("seoul")
	if r == nil {
		t.Fatal("seoul seed missing")
	}
	return r
}

func noon() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestFareCalculator_BaseFareAtStart(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())
	bd := calc.Breakdown()
	if bd.BaseFare != 4800 || bd.TotalFare != 4800 {
		t.Errorf("breakdown at start = %+v, want base and total 4800", bd)
	}
}

func TestFareCalculator_WithinBaseDistance(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())
	bd := calc.Tick(noon().Add(5*time.Minute), 5*time.Minute, 1600, 12, "seoul")

	if bd.DistanceFare != 0 {
		t.Errorf("distance fare at 1600m = %d, want 0", bd.DistanceFare)
	}
	if bd.TimeFare != 0 {
		t.Errorf("time fare while moving = %d, want 0", bd.TimeFare)
	}
	if bd.TotalFare != 4800 {
		t.Errorf("total at base distance = %d, want 4800", bd.TotalFare)
	}
}

func TestFareCalculator_DistanceUnits(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())

	// One full 131 m unit past the 1600 m base distance.
	bd := calc.Tick(noon().Add(6*time.Minute), 6*time.Minute, 1731, 12, "seoul")
	if bd.DistanceFare != 100 {
		t.Errorf("distance fare at 1731m = %d, want 100", bd.DistanceFare)
	}
	if bd.TotalFare != 4900 {
		t.Errorf("total at 1731m = %d, want 4900", bd.TotalFare)
	}

	// A partial unit earns nothing further.
	bd = calc.Tick(noon().Add(7*time.Minute), time.Minute, 1860, 12, "seoul")
	if bd.DistanceFare != 100 {
		t.Errorf("distance fare at 1860m = %d, want 100", bd.DistanceFare)
	}

	// Ten units.
	bd = calc.Tick(noon().Add(15*time.Minute), 8*time.Minute, 1600+1310, 12, "seoul")
	if bd.DistanceFare != 1000 {
		t.Errorf("distance fare at 2910m = %d, want 1000", bd.DistanceFare)
	}
}

func TestFareCalculator_WaitingTime(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())

	now := noon()
	for i := 0; i < 3; i++ {
		now = now.Add(30 * time.Second)
		calc.Tick(now, 30*time.Second, 0, 0, "seoul")
	}
	bd := calc.Breakdown()
	if bd.TimeFare != 300 {
		t.Errorf("time fare after 90s stopped = %d, want 300", bd.TimeFare)
	}
	if got := calc.WaitingSeconds(); got != 90 {
		t.Errorf("waiting seconds = %v, want 90", got)
	}

	// Unavailable speed counts as waiting too.
	now = now.Add(30 * time.Second)
	bd = calc.Tick(now, 30*time.Second, 0, domain.SpeedUnavailable, "seoul")
	if bd.TimeFare != 400 {
		t.Errorf("time fare = %d, want 400", bd.TimeFare)
	}

	// Moving again stops the waiting clock.
	now = now.Add(time.Minute)
	bd = calc.Tick(now, time.Minute, 500, 12, "seoul")
	if bd.TimeFare != 400 {
		t.Errorf("time fare while moving = %d, want unchanged 400", bd.TimeFare)
	}
}

func TestFareCalculator_RegionSurchargeOnce(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())

	now := noon().Add(time.Minute)
	bd := calc.Tick(now, time.Minute, 100, 12, "seoul")
	if bd.RegionSurcharge != 0 {
		t.Errorf("surcharge inside the start region = %d, want 0", bd.RegionSurcharge)
	}

	now = now.Add(time.Minute)
	bd = calc.Tick(now, time.Minute, 200, 12, "gyeonggi")
	if bd.RegionSurcharge != 2000 {
		t.Errorf("surcharge after leaving seoul = %d, want 2000", bd.RegionSurcharge)
	}

	// Coming back and leaving again never charges twice.
	now = now.Add(time.Minute)
	calc.Tick(now, time.Minute, 300, 12, "seoul")
	now = now.Add(time.Minute)
	bd = calc.Tick(now, time.Minute, 400, 12, "incheon")
	if bd.RegionSurcharge != 2000 {
		t.Errorf("surcharge after re-crossing = %d, want still 2000", bd.RegionSurcharge)
	}
}

func TestFareCalculator_UnknownRegionNoSurcharge(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())
	bd := calc.Tick(noon().Add(time.Minute), time.Minute, 100, 12, domain.RegionUnknown)
	if bd.RegionSurcharge != 0 {
		t.Errorf("surcharge on unknown region = %d, want 0", bd.RegionSurcharge)
	}
}

func TestFareCalculator_NightSurchargeDelta(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), start)

	// Base distance consumed entirely inside the day tier.
	now := start.Add(30 * time.Minute)
	calc.Tick(now, 30*time.Minute, 1600, 12, "seoul")

	// First tick past 22:00 folds the (empty) day segment.
	now = time.Date(2025, 3, 10, 22, 0, 30, 0, time.UTC)
	calc.Tick(now, 30*time.Minute, 1600, 12, "seoul")

	// Ten 131 m units traveled under NIGHT1 (120 per unit vs 100 day).
	now = now.Add(30 * time.Minute)
	bd := calc.Tick(now, 30*time.Minute, 1600+1310, 12, "seoul")

	if bd.DistanceFare != 1000 {
		t.Errorf("day-equivalent distance fare = %d, want 1000", bd.DistanceFare)
	}
	if bd.NightSurcharge != 200 {
		t.Errorf("night surcharge = %d, want 200", bd.NightSurcharge)
	}
	if bd.TotalFare != 4800+1000+200 {
		t.Errorf("total = %d, want 6000", bd.TotalFare)
	}
}

func TestFareCalculator_BaseTierLockedAtStart(t *testing.T) {
	t.Parallel()

	// Trip starts deep night: the NIGHT2 base fare holds for the whole
	// trip, even after the clock crosses into the day tier.
	start := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), start)

	if bd := calc.Breakdown(); bd.BaseFare != 6720 {
		t.Fatalf("NIGHT2 base fare = %d, want 6720", bd.BaseFare)
	}

	day := time.Date(2025, 3, 11, 5, 0, 0, 0, time.UTC)
	bd := calc.Tick(day, time.Minute, 1000, 12, "seoul")
	if bd.BaseFare != 6720 {
		t.Errorf("base fare after crossing into day = %d, want locked 6720", bd.BaseFare)
	}
}

func TestFareCalculator_SwitchSchedule(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), noon())

	now := noon().Add(10 * time.Minute)
	calc.Tick(now, 10*time.Minute, 1600, 12, "seoul")

	gyeonggi := tariff.SeedByCode("gyeonggi")
	if gyeonggi == nil {
		t.Fatal("gyeonggi seed missing")
	}
	calc.SwitchSchedule(gyeonggi, now, 1600)

	// Ten 121 m units under the gyeonggi table.
	now = now.Add(10 * time.Minute)
	bd := calc.Tick(now, 10*time.Minute, 1600+1210, 12, "gyeonggi")
	if bd.DistanceFare != 1000 {
		t.Errorf("distance fare after schedule switch = %d, want 1000", bd.DistanceFare)
	}
	if bd.BaseFare != 4800 {
		t.Errorf("base fare after schedule switch = %d, want locked 4800", bd.BaseFare)
	}
}

func TestFareCalculator_MonotonicComponents(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 10, 21, 50, 0, 0, time.UTC)
	calc := NewFareCalculator(seoulSchedule(t), "seoul", 2000, testFareConfig(), start)

	prev := calc.Breakdown()
	now := start
	distance := 0.0
	speeds := []float64{12, 0, 0, 12, domain.SpeedUnavailable, 12, 12, 0, 12, 12}
	regions := []domain.RegionCode{"seoul", "seoul", domain.RegionUnknown, "seoul", "seoul", "gyeonggi", "gyeonggi", "gyeonggi", "seoul", "seoul"}

	// Crosses the 22:00 tier boundary partway through.
	for i := 0; i < len(speeds); i++ {
		now = now.Add(2 * time.Minute)
		if speeds[i] >= 4.17 {
			distance += 400
		}
		bd := calc.Tick(now, 2*time.Minute, distance, speeds[i], regions[i])
		if bd.BaseFare < prev.BaseFare || bd.DistanceFare < prev.DistanceFare ||
			bd.TimeFare < prev.TimeFare || bd.RegionSurcharge < prev.RegionSurcharge ||
			bd.NightSurcharge < prev.NightSurcharge || bd.TotalFare < prev.TotalFare {
			t.Fatalf("component decreased at step %d: %+v -> %+v", i, prev, bd)
		}
		prev = bd
	}
}
