package meter

import "errors"

var (
	// ErrNoTariffAvailable is returned when no schedule can be resolved
	// for the starting region. Callers recover by falling back to the
	// configured default schedule.
	ErrNoTariffAvailable = errors.New("no tariff available for region")

	// ErrNotRunning is returned when an event is delivered to a session
	// that is not in the Running state.
	ErrNotRunning = errors.New("trip session not running")

	// ErrAlreadyRunning is returned when Start is called on a session
	// that already left the Idle state.
	ErrAlreadyRunning = errors.New("trip session already started")

	// ErrNoPromptPending is returned when a prompt acknowledgement
	// arrives while the watchdog has no open prompt.
	ErrNoPromptPending = errors.New("no idle prompt pending")
)
