package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/devbada/hogumeter-sub001/internal/config"
	"github.com/devbada/hogumeter-sub001/internal/domain"
	"github.com/devbada/hogumeter-sub001/internal/meter"
	"github.com/devbada/hogumeter-sub001/internal/redis"
	"github.com/devbada/hogumeter-sub001/internal/repository"
	"github.com/devbada/hogumeter-sub001/internal/tariff"
)

// meterLockTTL bounds how long a crashed instance can hold a device's
// active-trip lock.
const meterLockTTL = 24 * time.Hour

// MeterService owns the active trip sessions, at most one per device.
// It wires each session to the tariff store, the region resolver, the
// notification channel, the snapshot store and the trip repository.
type MeterService struct {
	mu       sync.RWMutex
	sessions map[string]*meter.Session

	cfg       config.MeterConfig
	tariffs   repository.TariffRepository
	trips     repository.TripRepository
	resolver  *meter.RegionResolver
	snapshots redis.SnapshotStoreInterface
	locks     redis.LockStoreInterface
	notifier  *NotificationService
}

// NewMeterService creates a new MeterService.
func NewMeterService(
	cfg config.MeterConfig,
	tariffs repository.TariffRepository,
	trips repository.TripRepository,
	resolver *meter.RegionResolver,
	snapshots redis.SnapshotStoreInterface,
	locks redis.LockStoreInterface,
	notifier *NotificationService,
) *MeterService {
	return &MeterService{
		sessions:  make(map[string]*meter.Session),
		cfg:       cfg,
		tariffs:   tariffs,
		trips:     trips,
		resolver:  resolver,
		snapshots: snapshots,
		locks:     locks,
		notifier:  notifier,
	}
}

// StartTrip starts the meter for a device at the given location.
func (s *MeterService) StartTrip(ctx context.Context, deviceID string, fix domain.GpsFix) (domain.Snapshot, error) {
	if deviceID == "" {
		return domain.Snapshot{}, ErrInvalidDeviceID
	}
	if err := validateFix(fix); err != nil {
		return domain.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[deviceID]; ok {
		switch existing.State() {
		case domain.TripStateRunning:
			return domain.Snapshot{}, ErrTripAlreadyActive
		case domain.TripStateCompleted:
			return domain.Snapshot{}, ErrTripNotReset
		}
	}

	if s.locks != nil {
		acquired, err := s.locks.AcquireMeterLock(ctx, deviceID, meterLockTTL)
		if err != nil {
			// Redis outage never blocks a trip start.
			log.Printf("meter service: lock acquire failed for %s: %v", deviceID, err)
		} else if !acquired {
			return domain.Snapshot{}, ErrTripAlreadyActive
		}
	}

	sess := meter.NewSession(s.sessionConfig(deviceID), meter.SessionDeps{
		Schedules: &tariffSource{repo: s.tariffs, defaultRegion: domain.RegionCode(s.cfg.HomeRegion)},
		Resolver:  s.resolver,
		Prompter:  s.notifier,
		Publisher: s,
		Sink:      s,
	})
	if err := sess.Start(ctx, fix); err != nil {
		s.releaseLock(deviceID)
		return domain.Snapshot{}, err
	}

	s.sessions[deviceID] = sess
	if s.notifier != nil {
		s.notifier.NotifyTripStarted(deviceID, sess.Snapshot().TripID)
	}
	return sess.Snapshot(), nil
}

// IngestFix delivers a location fix to the device's running session.
func (s *MeterService) IngestFix(ctx context.Context, deviceID string, fix domain.GpsFix) error {
	if err := validateFix(fix); err != nil {
		return err
	}
	sess, err := s.running(deviceID)
	if err != nil {
		return err
	}
	if err := sess.IngestFix(fix); err != nil {
		return mapSessionErr(err)
	}
	return nil
}

// StopTrip ends the device's trip and returns the completed artifact.
func (s *MeterService) StopTrip(ctx context.Context, deviceID string) (*domain.Trip, error) {
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}
	s.mu.RLock()
	sess, ok := s.sessions[deviceID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoActiveTrip
	}

	trip, err := sess.Stop()
	if err != nil {
		return nil, mapSessionErr(err)
	}
	return trip, nil
}

// ResolvePrompt delivers the user's answer to the idle prompt.
func (s *MeterService) ResolvePrompt(ctx context.Context, deviceID, action string) error {
	sess, err := s.running(deviceID)
	if err != nil {
		return err
	}

	var promptAction meter.PromptAction
	switch action {
	case PromptActionContinue:
		promptAction = meter.PromptContinue
	case PromptActionStop:
		promptAction = meter.PromptStop
	default:
		return ErrInvalidPromptAction
	}

	if err := sess.ResolvePrompt(promptAction); err != nil {
		return mapSessionErr(err)
	}
	return nil
}

// LiveSnapshot returns the device's live meter state: the in-process
// session if one exists, otherwise the last snapshot published to Redis.
func (s *MeterService) LiveSnapshot(ctx context.Context, deviceID string) (*domain.Snapshot, error) {
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}
	s.mu.RLock()
	sess, ok := s.sessions[deviceID]
	s.mu.RUnlock()
	if ok {
		snap := sess.Snapshot()
		return &snap, nil
	}

	if s.snapshots != nil {
		snap, err := s.snapshots.Get(ctx, deviceID)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			return snap, nil
		}
	}
	return nil, ErrNoActiveTrip
}

// ResetTrip clears a completed trip's live state, returning the device
// to Idle. Resetting a device with no trip is a no-op.
func (s *MeterService) ResetTrip(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return ErrInvalidDeviceID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[deviceID]
	if ok {
		if sess.State() == domain.TripStateRunning {
			return ErrTripStillRunning
		}
		delete(s.sessions, deviceID)
	}
	if s.snapshots != nil {
		if err := s.snapshots.Clear(ctx, deviceID); err != nil {
			log.Printf("meter service: snapshot clear failed for %s: %v", deviceID, err)
		}
	}
	s.releaseLock(deviceID)
	return nil
}

// PublishSnapshot implements meter.SnapshotPublisher by writing through
// to the Redis snapshot store.
func (s *MeterService) PublishSnapshot(snap domain.Snapshot) {
	if s.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.snapshots.Set(ctx, snap); err != nil {
		log.Printf("meter service: snapshot publish failed for %s: %v", snap.DeviceID, err)
	}
}

// TripCompleted implements meter.TripSink: the single completion path
// for both manual and watchdog-triggered stops. It persists the trip,
// releases the device lock and notifies the user.
func (s *MeterService) TripCompleted(trip *domain.Trip) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.trips.Create(ctx, trip); err != nil {
		log.Printf("meter service: persist trip %s failed: %v", trip.ID, err)
	}
	s.releaseLock(trip.DeviceID)
	if s.notifier != nil {
		s.notifier.NotifyTripEnded(trip)
	}
}

func (s *MeterService) running(deviceID string) (*meter.Session, error) {
	if deviceID == "" {
		return nil, ErrInvalidDeviceID
	}
	s.mu.RLock()
	sess, ok := s.sessions[deviceID]
	s.mu.RUnlock()
	if !ok || sess.State() != domain.TripStateRunning {
		return nil, ErrNoActiveTrip
	}
	return sess, nil
}

func (s *MeterService) releaseLock(deviceID string) {
	if s.locks == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.locks.ReleaseMeterLock(ctx, deviceID); err != nil {
		log.Printf("meter service: lock release failed for %s: %v", deviceID, err)
	}
}

func (s *MeterService) sessionConfig(deviceID string) meter.SessionConfig {
	return meter.SessionConfig{
		DeviceID:      deviceID,
		HomeRegion:    domain.RegionCode(s.cfg.HomeRegion),
		TickInterval:  s.cfg.TickInterval,
		FixStaleAfter: s.cfg.FixStaleAfter,
		Accumulator: meter.AccumulatorConfig{
			AccuracyCeilingMeters: s.cfg.AccuracyCeilingMeters,
			MaxPlausibleSpeedMps:  s.cfg.MaxPlausibleSpeedMps,
		},
		Fare: meter.FareConfig{
			LowSpeedThresholdMps: s.cfg.LowSpeedThresholdMps,
		},
		Watchdog: meter.WatchdogConfig{
			LowSpeedThresholdMps: s.cfg.LowSpeedThresholdMps,
			IdleThreshold:        s.cfg.IdleThreshold,
			PromptTimeout:        s.cfg.PromptTimeout,
		},
	}
}

func mapSessionErr(err error) error {
	if errors.Is(err, meter.ErrNotRunning) {
		return ErrNoActiveTrip
	}
	return err
}

func validateFix(fix domain.GpsFix) error {
	if fix.Latitude < -90 || fix.Latitude > 90 || fix.Longitude < -180 || fix.Longitude > 180 {
		return ErrInvalidLocation
	}
	return nil
}

// tariffSource adapts the tariff repository to meter.ScheduleProvider.
// Built-in seed schedules back every lookup so a missing table or a
// database outage degrades to defaults instead of blocking a trip.
type tariffSource struct {
	repo          repository.TariffRepository
	defaultRegion domain.RegionCode
}

// Schedule resolves a region's schedule, falling back to the seed data.
func (t *tariffSource) Schedule(ctx context.Context, code domain.RegionCode) (*domain.RegionFare, error) {
	if t.repo != nil {
		fare, err := t.repo.GetByCode(ctx, code)
		if err == nil {
			return fare, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("tariff source: lookup %s failed, trying seed: %v", code, err)
		}
	}
	if seed := tariff.SeedByCode(code); seed != nil {
		return seed, nil
	}
	return nil, meter.ErrNoTariffAvailable
}

// Default resolves the home region's schedule, guaranteed to succeed
// via the built-in default seed.
func (t *tariffSource) Default(ctx context.Context) (*domain.RegionFare, error) {
	if fare, err := t.Schedule(ctx, t.defaultRegion); err == nil {
		return fare, nil
	}
	return tariff.SeedByCode(tariff.DefaultRegion), nil
}
