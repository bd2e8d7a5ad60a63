package domain

import "time"

// TripState represents the lifecycle state of the meter.
type TripState string

const (
	TripStateIdle      TripState = "IDLE"
	TripStateRunning   TripState = "RUNNING"
	TripStateCompleted TripState = "COMPLETED"
)

// WatchdogState represents the idle watchdog's state.
type WatchdogState string

const (
	WatchdogArmed         WatchdogState = "ARMED"
	WatchdogPromptPending WatchdogState = "PROMPT_PENDING"
	WatchdogDisarmed      WatchdogState = "DISARMED"
)

// TripEndTrigger records what ended a trip.
type TripEndTrigger string

const (
	EndedByUser     TripEndTrigger = "USER"
	EndedByWatchdog TripEndTrigger = "WATCHDOG"
)

// FareBreakdown is the running fare decomposition. DistanceFare and
// TimeFare are day-rate equivalents; NightSurcharge carries the extra
// charged by the night tiers. Every component is non-decreasing for the
// lifetime of a trip.
type FareBreakdown struct {
	BaseFare        int64 `json:"base_fare"`
	DistanceFare    int64 `json:"distance_fare"`
	TimeFare        int64 `json:"time_fare"`
	RegionSurcharge int64 `json:"region_surcharge"`
	NightSurcharge  int64 `json:"night_surcharge"`
	TotalFare       int64 `json:"total_fare"`
}

// Trip is the terminal artifact built on the stop transition. Immutable
// once created; ownership passes to the trip repository.
type Trip struct {
	ID             string
	DeviceID       string
	StartedAt      time.Time
	EndedAt        time.Time
	DistanceMeters float64
	Duration       time.Duration
	StartRegion    RegionCode
	EndRegion      RegionCode
	StartDisplay   string
	EndDisplay     string
	Fare           FareBreakdown
	Path           []PathPoint
	EndedBy        TripEndTrigger
}

// Snapshot is the read-only live state published after every applied
// meter event, consumed by presentation layers.
type Snapshot struct {
	DeviceID       string        `json:"device_id"`
	TripID         string        `json:"trip_id"`
	State          TripState     `json:"state"`
	DistanceMeters float64       `json:"distance_meters"`
	DurationSec    int64         `json:"duration_seconds"`
	SpeedMps       float64       `json:"speed_mps"`
	Region         RegionCode    `json:"region"`
	Fare           FareBreakdown `json:"fare"`
	Watchdog       WatchdogState `json:"watchdog"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
