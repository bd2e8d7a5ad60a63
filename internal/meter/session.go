package meter

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/devbada/hogumeter-sub001/internal/domain"
)

// ScheduleProvider supplies tariff schedules to a session. The default
// schedule must always resolve; it is the NoTariffAvailable fallback.
type ScheduleProvider interface {
	Schedule(ctx context.Context, code domain.RegionCode) (*domain.RegionFare, error)
	Default(ctx context.Context) (*domain.RegionFare, error)
}

// Prompter is the notification channel the idle watchdog emits its
// continue/stop prompt through.
type Prompter interface {
	PromptIdle(deviceID, tripID string, idleFor, timeout time.Duration)
}

// SnapshotPublisher receives the read-only live state after every
// applied event.
type SnapshotPublisher interface {
	PublishSnapshot(snap domain.Snapshot)
}

// TripSink receives the completed trip artifact. There is exactly one
// way a trip ends, so the sink fires exactly once per trip regardless of
// what triggered the stop.
type TripSink interface {
	TripCompleted(trip *domain.Trip)
}

// PromptAction is the user's answer to the idle prompt.
type PromptAction string

const (
	PromptContinue PromptAction = "continue"
	PromptStop     PromptAction = "stop"
)

// SessionConfig holds the per-trip engine configuration.
type SessionConfig struct {
	DeviceID   string
	HomeRegion domain.RegionCode

	// TickInterval drives fare and watchdog time while no fixes
	// arrive (a stationary phone stops producing fixes once the
	// provider's displacement filter kicks in).
	TickInterval time.Duration
	// FixStaleAfter is how old the last accepted fix may be before
	// speed is treated as unavailable on ticker ticks.
	FixStaleAfter time.Duration

	Accumulator AccumulatorConfig
	Fare        FareConfig
	Watchdog    WatchdogConfig
}

// SessionDeps are the session's collaborators.
type SessionDeps struct {
	Schedules ScheduleProvider
	Resolver  *RegionResolver
	Prompter  Prompter
	Publisher SnapshotPublisher
	Sink      TripSink
}

type fixEvent struct{ fix domain.GpsFix }

type tickEvent struct{ now time.Time }

type promptEvent struct {
	action PromptAction
	reply  chan error
}

type stopEvent struct {
	reply chan stopReply
}

type stopReply struct {
	trip *domain.Trip
	err  error
}

// timeoutEvent is posted by the prompt-timeout timer. It carries the
// epoch current when the timer was scheduled; a stale epoch means the
// prompt it belonged to was already resolved.
type timeoutEvent struct{ epoch uint64 }

// Session is the trip state machine: Idle -> Running -> Completed. It is
// the sole mutator of trip state. All inbound events (fixes, watchdog
// timers, acknowledgements, stop requests) are serialized onto one
// event-loop goroutine, so mutual exclusion holds by construction.
type Session struct {
	cfg  SessionConfig
	deps SessionDeps

	started atomic.Bool
	events  chan any
	done    chan struct{}
	snap    atomic.Value // domain.Snapshot

	// Loop-owned state below; never touched outside the loop once
	// Start returns.
	state        domain.TripState
	epoch        uint64
	tripID       string
	startedAt    time.Time
	lastApply    time.Time
	lastFixAt    time.Time
	startRegion  domain.RegionCode
	curRegion    domain.RegionCode
	startDisplay string
	lastDisplay  string
	acc          *DistanceAccumulator
	calc         *FareCalculator
	dog          *IdleWatchdog
	promptTimer  *time.Timer
	completed    *domain.Trip
}

// NewSession creates an idle session. Start must be called before any
// events are delivered.
func NewSession(cfg SessionConfig, deps SessionDeps) *Session {
	s := &Session{
		cfg:    cfg,
		deps:   deps,
		events: make(chan any, 16),
		done:   make(chan struct{}),
		state:  domain.TripStateIdle,
		acc:    NewDistanceAccumulator(cfg.Accumulator),
		dog:    NewIdleWatchdog(cfg.Watchdog),
	}
	s.snap.Store(domain.Snapshot{
		DeviceID: cfg.DeviceID,
		State:    domain.TripStateIdle,
		Watchdog: domain.WatchdogDisarmed,
	})
	return s
}

// Start resolves the tariff schedule for the starting fix, arms the
// watchdog and transitions to Running. A missing schedule is recovered
// by falling back to the default schedule; only a missing default is
// surfaced as ErrNoTariffAvailable.
func (s *Session) Start(ctx context.Context, at domain.GpsFix) error {
	if err := s.begin(ctx, at); err != nil {
		return err
	}
	go s.run()
	return nil
}

// begin performs the Start transition without launching the event loop.
// Split out so tests can drive the loop handlers synchronously.
func (s *Session) begin(ctx context.Context, at domain.GpsFix) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	now := at.Timestamp
	if now.IsZero() {
		now = time.Now().UTC()
		at.Timestamp = now
	}

	code := s.cfg.HomeRegion
	var addr domain.Address
	if s.deps.Resolver != nil {
		if resolved, a := s.deps.Resolver.Resolve(ctx, at.Latitude, at.Longitude); resolved != domain.RegionUnknown {
			code, addr = resolved, a
		}
	}

	schedule, err := s.deps.Schedules.Schedule(ctx, code)
	if err != nil {
		log.Printf("meter: no tariff for region %s, falling back to default: %v", code, err)
		schedule, err = s.deps.Schedules.Default(ctx)
		if err != nil {
			s.started.Store(false)
			return ErrNoTariffAvailable
		}
		code = schedule.Code
	}

	var homeSurcharge int64
	if home, err := s.deps.Schedules.Schedule(ctx, s.cfg.HomeRegion); err == nil {
		homeSurcharge = home.SurchargeAmount
	} else {
		homeSurcharge = schedule.SurchargeAmount
	}

	s.tripID = uuid.New().String()
	s.startedAt = now
	s.lastApply = now
	s.lastFixAt = now
	s.startRegion = code
	s.curRegion = code
	s.startDisplay = DisplayRegion(addr)
	s.lastDisplay = s.startDisplay
	s.calc = NewFareCalculator(schedule, code, homeSurcharge, s.cfg.Fare, now)
	s.acc.Ingest(at)
	s.dog.Arm()
	s.state = domain.TripStateRunning
	s.publish(now)
	return nil
}

// IngestFix delivers one raw fix from the location provider.
func (s *Session) IngestFix(fix domain.GpsFix) error {
	return s.send(fixEvent{fix: fix})
}

// ResolvePrompt delivers the user's answer to the idle prompt.
func (s *Session) ResolvePrompt(action PromptAction) error {
	reply := make(chan error, 1)
	if err := s.send(promptEvent{action: action, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-s.done:
		return ErrNotRunning
	}
}

// Stop freezes the fare, builds the trip artifact and transitions to
// Completed. Watchdog-requested stops route through the same path
// internally.
func (s *Session) Stop() (*domain.Trip, error) {
	reply := make(chan stopReply, 1)
	if err := s.send(stopEvent{reply: reply}); err != nil {
		if trip := s.Completed(); trip != nil {
			return trip, nil
		}
		return nil, err
	}
	select {
	case r := <-reply:
		return r.trip, r.err
	case <-s.done:
		if trip := s.Completed(); trip != nil {
			return trip, nil
		}
		return nil, ErrNotRunning
	}
}

// Snapshot returns the latest published live state.
func (s *Session) Snapshot() domain.Snapshot {
	return s.snap.Load().(domain.Snapshot)
}

// State returns the session's lifecycle state.
func (s *Session) State() domain.TripState {
	return s.Snapshot().State
}

// Completed returns the trip artifact once the session has completed,
// nil before.
func (s *Session) Completed() *domain.Trip {
	select {
	case <-s.done:
		return s.completed
	default:
		return nil
	}
}

// Done is closed when the session reaches Completed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) send(e any) error {
	if !s.started.Load() {
		return ErrNotRunning
	}
	select {
	case <-s.done:
		// Completed sessions keep a buffered events channel; checking
		// done first keeps post-completion sends deterministic.
		return ErrNotRunning
	default:
	}
	select {
	case s.events <- e:
		return nil
	case <-s.done:
		return ErrNotRunning
	}
}

// sendAsync posts timer-originated events without blocking the timer
// goroutine on a completed session.
func (s *Session) sendAsync(e any) {
	select {
	case s.events <- e:
	case <-s.done:
	}
}

func (s *Session) run() {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.handleTick(tickEvent{now: now})
		case e := <-s.events:
			switch ev := e.(type) {
			case fixEvent:
				s.handleFix(ev)
			case tickEvent:
				s.handleTick(ev)
			case promptEvent:
				s.handlePrompt(ev)
			case stopEvent:
				s.handleStop(ev)
			case timeoutEvent:
				s.handleTimeout(ev)
			}
		}
		if s.state == domain.TripStateCompleted {
			return
		}
	}
}

func (s *Session) handleFix(e fixEvent) {
	if s.state != domain.TripStateRunning {
		return
	}
	outcome := s.acc.Ingest(e.fix)
	if !outcome.Accepted {
		// Noise is dropped without any trip effect.
		return
	}
	now := e.fix.Timestamp
	s.lastFixAt = now

	region := domain.RegionUnknown
	if s.deps.Resolver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		code, addr := s.deps.Resolver.Resolve(ctx, e.fix.Latitude, e.fix.Longitude)
		cancel()
		region = code
		if code != domain.RegionUnknown {
			if d := DisplayRegion(addr); d != "" {
				s.lastDisplay = d
			}
			if HasRegionChanged(s.curRegion, code) {
				s.switchRegion(code, now)
			}
			s.curRegion = code
		}
	}

	s.applyObservation(now, s.acc.SpeedMps(), region)
}

func (s *Session) handleTick(e tickEvent) {
	if s.state != domain.TripStateRunning {
		return
	}
	speed := s.acc.SpeedMps()
	if e.now.Sub(s.lastFixAt) > s.cfg.FixStaleAfter {
		speed = domain.SpeedUnavailable
	}
	s.applyObservation(e.now, speed, s.curRegion)
}

// applyObservation is the single update step: fare tick, watchdog
// observation, snapshot publish.
func (s *Session) applyObservation(now time.Time, speed float64, region domain.RegionCode) {
	elapsed := now.Sub(s.lastApply)
	if elapsed < 0 {
		elapsed = 0
	}
	s.lastApply = now

	s.calc.Tick(now, elapsed, s.acc.DistanceMeters(), speed, region)

	switch s.dog.Observe(speed, elapsed) {
	case ActionPrompt:
		s.schedulePromptTimeout()
		if s.deps.Prompter != nil {
			s.deps.Prompter.PromptIdle(s.cfg.DeviceID, s.tripID, s.dog.IdleFor(), s.cfg.Watchdog.PromptTimeout)
		}
	}

	s.publish(now)
}

func (s *Session) switchRegion(code domain.RegionCode, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	schedule, err := s.deps.Schedules.Schedule(ctx, code)
	if err != nil {
		// Keep charging under the schedule already in effect.
		log.Printf("meter: region %s has no schedule, keeping current tariff: %v", code, err)
		return
	}
	s.calc.SwitchSchedule(schedule, now, s.acc.DistanceMeters())
}

func (s *Session) handlePrompt(e promptEvent) {
	if s.state != domain.TripStateRunning {
		e.reply <- ErrNotRunning
		return
	}
	switch e.action {
	case PromptStop:
		if err := s.dog.ResolveStop(); err != nil {
			e.reply <- err
			return
		}
		e.reply <- nil
		s.doStop(domain.EndedByUser)
	default:
		err := s.dog.ResolveContinue()
		if err == nil {
			s.invalidateTimers()
			s.publish(time.Now().UTC())
		}
		e.reply <- err
	}
}

func (s *Session) handleTimeout(e timeoutEvent) {
	if s.state != domain.TripStateRunning || e.epoch != s.epoch {
		// Stale timer from a prompt that was already resolved.
		return
	}
	if s.dog.TimeoutExpired() == ActionStop {
		s.doStop(domain.EndedByWatchdog)
	}
}

func (s *Session) handleStop(e stopEvent) {
	if s.state != domain.TripStateRunning {
		e.reply <- stopReply{err: ErrNotRunning}
		return
	}
	trip := s.doStop(domain.EndedByUser)
	e.reply <- stopReply{trip: trip}
}

func (s *Session) schedulePromptTimeout() {
	s.invalidateTimers()
	ep := s.epoch
	s.promptTimer = time.AfterFunc(s.cfg.Watchdog.PromptTimeout, func() {
		s.sendAsync(timeoutEvent{epoch: ep})
	})
}

// invalidateTimers bumps the epoch so any already-scheduled timer event
// is dropped on arrival, and stops the pending timer best-effort.
func (s *Session) invalidateTimers() {
	s.epoch++
	if s.promptTimer != nil {
		s.promptTimer.Stop()
		s.promptTimer = nil
	}
}

// doStop is the only way a trip ends. It freezes the fare, disarms the
// watchdog, builds the immutable trip artifact and hands it to the sink.
func (s *Session) doStop(trigger domain.TripEndTrigger) *domain.Trip {
	now := time.Now().UTC()
	if now.Before(s.lastApply) {
		now = s.lastApply
	}

	// Settle the final partial interval before freezing.
	elapsed := now.Sub(s.lastApply)
	s.calc.Tick(now, elapsed, s.acc.DistanceMeters(), s.acc.SpeedMps(), s.curRegion)
	s.lastApply = now

	s.invalidateTimers()
	s.dog.Disarm()
	s.state = domain.TripStateCompleted

	endRegion := s.curRegion
	if endRegion == "" || endRegion == domain.RegionUnknown {
		endRegion = s.startRegion
	}

	trip := &domain.Trip{
		ID:             s.tripID,
		DeviceID:       s.cfg.DeviceID,
		StartedAt:      s.startedAt,
		EndedAt:        now,
		DistanceMeters: s.acc.DistanceMeters(),
		Duration:       now.Sub(s.startedAt),
		StartRegion:    s.startRegion,
		EndRegion:      endRegion,
		StartDisplay:   s.startDisplay,
		EndDisplay:     s.lastDisplay,
		Fare:           s.calc.Breakdown(),
		Path:           s.acc.Path(),
		EndedBy:        trigger,
	}
	s.completed = trip
	s.publish(now)
	close(s.done)

	if s.deps.Sink != nil {
		s.deps.Sink.TripCompleted(trip)
	}
	return trip
}

func (s *Session) publish(now time.Time) {
	var fare domain.FareBreakdown
	if s.calc != nil {
		fare = s.calc.Breakdown()
	}
	speed := s.acc.SpeedMps()
	if speed < 0 {
		speed = 0
	}
	var duration time.Duration
	if !s.startedAt.IsZero() {
		duration = now.Sub(s.startedAt)
	}
	snap := domain.Snapshot{
		DeviceID:       s.cfg.DeviceID,
		TripID:         s.tripID,
		State:          s.state,
		DistanceMeters: s.acc.DistanceMeters(),
		DurationSec:    int64(duration.Seconds()),
		SpeedMps:       speed,
		Region:         s.curRegion,
		Fare:           fare,
		Watchdog:       s.dog.State(),
		UpdatedAt:      now,
	}
	s.snap.Store(snap)
	if s.deps.Publisher != nil {
		s.deps.Publisher.PublishSnapshot(snap)
	}
}
