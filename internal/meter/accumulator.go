package meter

import (
	"github.com/golang/geo/s2"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// earthRadiusMeters is Earth's mean radius.
const earthRadiusMeters = 6371000.0

// RejectReason explains why a fix was discarded.
type RejectReason string

const (
	RejectNone            RejectReason = ""
	RejectAccuracy        RejectReason = "ACCURACY"
	RejectImplausibleJump RejectReason = "IMPLAUSIBLE_JUMP"
	RejectOutOfOrder      RejectReason = "OUT_OF_ORDER"
)

// SampleOutcome is the result of ingesting one fix.
type SampleOutcome struct {
	Accepted    bool
	Reason      RejectReason
	DeltaMeters float64
}

// AccumulatorConfig holds the noise-filter thresholds.
type AccumulatorConfig struct {
	// AccuracyCeilingMeters rejects fixes with a worse horizontal
	// accuracy radius.
	AccuracyCeilingMeters float64
	// MaxPlausibleSpeedMps rejects fixes implying a faster jump from
	// the last accepted fix.
	MaxPlausibleSpeedMps float64
}

// DistanceAccumulator filters raw fixes and accumulates the
// authoritative trip distance. Distance is monotonic non-decreasing for
// the trip's lifetime; rejected fixes leave all state untouched. It has
// no tariff knowledge and is owned by a single trip session.
type DistanceAccumulator struct {
	cfg      AccumulatorConfig
	last     *domain.GpsFix
	distance float64
	speed    float64
	path     []domain.PathPoint
}

// NewDistanceAccumulator creates an accumulator with the given filter
// thresholds.
func NewDistanceAccumulator(cfg AccumulatorConfig) *DistanceAccumulator {
	return &DistanceAccumulator{cfg: cfg, speed: domain.SpeedUnavailable}
}

// Ingest consumes one fix, either accepting it into the sample stream or
// rejecting it with a reason.
func (a *DistanceAccumulator) Ingest(fix domain.GpsFix) SampleOutcome {
	if a.cfg.AccuracyCeilingMeters > 0 && fix.Accuracy > a.cfg.AccuracyCeilingMeters {
		return SampleOutcome{Reason: RejectAccuracy}
	}

	if a.last == nil {
		a.accept(fix)
		return SampleOutcome{Accepted: true}
	}

	elapsed := fix.Timestamp.Sub(a.last.Timestamp).Seconds()
	if elapsed <= 0 {
		return SampleOutcome{Reason: RejectOutOfOrder}
	}

	delta := GreatCircleMeters(a.last.Latitude, a.last.Longitude, fix.Latitude, fix.Longitude)
	implied := delta / elapsed
	if a.cfg.MaxPlausibleSpeedMps > 0 && implied > a.cfg.MaxPlausibleSpeedMps {
		return SampleOutcome{Reason: RejectImplausibleJump}
	}

	a.distance += delta
	a.speed = implied
	a.accept(fix)
	return SampleOutcome{Accepted: true, DeltaMeters: delta}
}

func (a *DistanceAccumulator) accept(fix domain.GpsFix) {
	f := fix
	a.last = &f
	a.path = append(a.path, domain.PathPoint{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Timestamp: fix.Timestamp,
	})
}

// DistanceMeters returns the cumulative accepted distance.
func (a *DistanceAccumulator) DistanceMeters() float64 {
	return a.distance
}

// SpeedMps returns the speed implied by the last two accepted fixes, or
// domain.SpeedUnavailable before two fixes have been accepted.
func (a *DistanceAccumulator) SpeedMps() float64 {
	return a.speed
}

// LastFix returns the most recent accepted fix, or nil.
func (a *DistanceAccumulator) LastFix() *domain.GpsFix {
	return a.last
}

// Path returns the accepted sample stream.
func (a *DistanceAccumulator) Path() []domain.PathPoint {
	return a.path
}

// GreatCircleMeters computes the great-circle distance between two
// coordinates.
func GreatCircleMeters(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}
