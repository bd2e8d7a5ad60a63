package service

import "errors"

var (
	// ErrInvalidDeviceID is returned when the device ID is empty.
	ErrInvalidDeviceID = errors.New("invalid device id")

	// ErrInvalidTripID is returned when the trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidFix is returned when a fix is missing its timestamp.
	ErrInvalidFix = errors.New("invalid fix")

	// ErrTripAlreadyActive is returned when starting while a trip is
	// already running for the device.
	ErrTripAlreadyActive = errors.New("trip already active for device")

	// ErrNoActiveTrip is returned when an event arrives for a device
	// with no running trip.
	ErrNoActiveTrip = errors.New("no active trip for device")

	// ErrTripStillRunning is returned when resetting a device whose
	// trip has not been stopped.
	ErrTripStillRunning = errors.New("trip still running")

	// ErrTripNotReset is returned when starting while a completed trip
	// has not been reset yet.
	ErrTripNotReset = errors.New("completed trip awaiting reset")

	// ErrInvalidPromptAction is returned for an unrecognized prompt
	// answer.
	ErrInvalidPromptAction = errors.New("invalid prompt action")

	// ErrInvalidRegionCode is returned when the region code is empty.
	ErrInvalidRegionCode = errors.New("invalid region code")

	// ErrInvalidTariff is returned when a submitted schedule fails
	// validation.
	ErrInvalidTariff = errors.New("invalid tariff schedule")

	// ErrHomeRegionProtected is returned when deleting the home
	// region's schedule.
	ErrHomeRegionProtected = errors.New("home region schedule cannot be deleted")

	// ErrInvalidPage is returned for non-positive pagination values.
	ErrInvalidPage = errors.New("invalid page parameters")
)
