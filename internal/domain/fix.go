package domain

import "time"

// SpeedUnavailable marks a fix whose provider did not report a speed.
const SpeedUnavailable = -1.0

// GpsFix represents a single raw location fix from the location provider.
// Fixes arrive at roughly 1 Hz and are consumed exactly once by the
// distance accumulator, which may discard them without any trip effect.
type GpsFix struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time // UTC
	SpeedMps  float64   // SpeedUnavailable when the provider reported none
	Accuracy  float64   // horizontal accuracy radius in meters
}

// HasSpeed reports whether the provider supplied a usable speed reading.
func (f GpsFix) HasSpeed() bool {
	return f.SpeedMps >= 0
}

// PathPoint is an accepted fix reduced to what the trip receipt needs.
type PathPoint struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Timestamp time.Time `json:"ts"`
}

// Address holds the administrative components returned by the reverse
// geocoding collaborator. Fields may be empty when unresolved.
type Address struct {
	Country  string
	Province string
	City     string
	District string
}
