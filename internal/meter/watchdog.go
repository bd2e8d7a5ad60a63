package meter

import (
	"time"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// WatchdogConfig holds the idle-detection thresholds.
type WatchdogConfig struct {
	// LowSpeedThresholdMps is the speed below which a trip counts as
	// idle. Unavailable speed counts as idle too.
	LowSpeedThresholdMps float64
	// IdleThreshold is how long consecutive idleness runs before the
	// user is prompted.
	IdleThreshold time.Duration
	// PromptTimeout is how long an unanswered prompt lives before the
	// trip is force-stopped.
	PromptTimeout time.Duration
}

// WatchdogAction tells the session what to do after an observation.
type WatchdogAction int

const (
	// ActionNone means nothing to do.
	ActionNone WatchdogAction = iota
	// ActionPrompt means emit the continue/stop prompt and start the
	// prompt timeout clock.
	ActionPrompt
	// ActionStop means request a trip stop.
	ActionStop
)

// IdleWatchdog decides whether a stalled trip keeps running. It is a
// pure state machine: the owning session feeds it observations and
// timer expirations, and schedules timers for the actions it returns.
//
// While a prompt is pending, renewed motion does not resolve it; only an
// explicit acknowledgement or the timeout does. GPS noise must not
// dismiss a prompt the user never saw.
type IdleWatchdog struct {
	cfg   WatchdogConfig
	state domain.WatchdogState
	idle  time.Duration
}

// NewIdleWatchdog creates a disarmed watchdog.
func NewIdleWatchdog(cfg WatchdogConfig) *IdleWatchdog {
	return &IdleWatchdog{cfg: cfg, state: domain.WatchdogDisarmed}
}

// State returns the watchdog's current state.
func (w *IdleWatchdog) State() domain.WatchdogState {
	return w.state
}

// IdleFor returns the accumulated consecutive idle time.
func (w *IdleWatchdog) IdleFor() time.Duration {
	return w.idle
}

// Arm activates idle detection. Called when the session enters Running.
func (w *IdleWatchdog) Arm() {
	w.state = domain.WatchdogArmed
	w.idle = 0
}

// Disarm makes the watchdog inert. Called when the session leaves
// Running.
func (w *IdleWatchdog) Disarm() {
	w.state = domain.WatchdogDisarmed
	w.idle = 0
}

// Observe feeds one speed observation covering the elapsed interval.
func (w *IdleWatchdog) Observe(speed float64, elapsed time.Duration) WatchdogAction {
	if w.state != domain.WatchdogArmed {
		return ActionNone
	}
	if speed >= w.cfg.LowSpeedThresholdMps {
		w.idle = 0
		return ActionNone
	}
	w.idle += elapsed
	if w.idle >= w.cfg.IdleThreshold {
		w.state = domain.WatchdogPromptPending
		return ActionPrompt
	}
	return ActionNone
}

// ResolveContinue applies the user's "continue" choice.
func (w *IdleWatchdog) ResolveContinue() error {
	if w.state != domain.WatchdogPromptPending {
		return ErrNoPromptPending
	}
	w.state = domain.WatchdogArmed
	w.idle = 0
	return nil
}

// ResolveStop applies the user's "stop" choice.
func (w *IdleWatchdog) ResolveStop() error {
	if w.state != domain.WatchdogPromptPending {
		return ErrNoPromptPending
	}
	return nil
}

// TimeoutExpired handles the prompt timeout firing. The fail-safe
// default is to end the trip, never to keep charging an abandoned
// session.
func (w *IdleWatchdog) TimeoutExpired() WatchdogAction {
	if w.state != domain.WatchdogPromptPending {
		return ActionNone
	}
	return ActionStop
}
